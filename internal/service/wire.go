package service

import "github.com/google/wire"

// ProviderSet is the Wire provider set for services.
var ProviderSet = wire.NewSet(
	NewTextService,
	NewMaintenanceService,
)
