//go:build wireinject
// +build wireinject

package main

import (
	"github.com/MiNam8/PastebinClone/internal/config"
	"github.com/MiNam8/PastebinClone/internal/handler"
	"github.com/MiNam8/PastebinClone/internal/repository"
	"github.com/MiNam8/PastebinClone/internal/server"
	"github.com/MiNam8/PastebinClone/internal/service"

	"github.com/google/wire"
)

func initializeApplication() (*Application, error) {
	wire.Build(
		config.ProviderSet,
		repository.ProviderSet,
		service.ProviderSet,
		handler.ProviderSet,
		server.ProviderSet,
		provideCleanup,
		wire.Struct(new(Application), "Config", "Server", "Maintenance", "Cleanup"),
	)
	return nil, nil
}
