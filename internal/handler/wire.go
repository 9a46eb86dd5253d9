package handler

import "github.com/google/wire"

// Handlers groups everything the router mounts.
type Handlers struct {
	Text   *TextHandler
	Health *HealthHandler
}

func ProvideHandlers(textHandler *TextHandler, healthHandler *HealthHandler) *Handlers {
	return &Handlers{
		Text:   textHandler,
		Health: healthHandler,
	}
}

// ProviderSet is the Wire provider set for all handlers.
var ProviderSet = wire.NewSet(
	NewTextHandler,
	NewHealthHandler,
	ProvideHandlers,
)
