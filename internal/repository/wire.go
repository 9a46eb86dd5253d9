package repository

import "github.com/google/wire"

// ProviderSet is the Wire provider set for repositories and the stores they
// depend on.
var ProviderSet = wire.NewSet(
	NewRedisClient,
	NewPostgresDB,
	NewHashPool,
	NewTextCache,
	NewTextRepository,
	NewBlobStore,
)
