//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"questlog/internal"
	"questlog/internal/cloud"
	"questlog/internal/controllers"
	"questlog/internal/persistence"
	"questlog/internal/persistence/interfaces"
	"questlog/internal/providers"
	"questlog/internal/services"
	"questlog/internal/structures"
)

var ambientSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	providers.NewMetricsProvider,
	persistence.NewZstdCompressor,
)

var deviceSet = wire.NewSet(
	ambientSet,
	providers.NewIdentityProvider,
	persistence.NewLocalStore,
	persistence.NewCloudClient,
	persistence.NewAutosave,
	wire.Bind(new(interfaces.AutosaveInterface), new(*persistence.Autosave)),
	persistence.NewBackupStore,
	persistence.NewReconciler,
	persistence.NewScheduler,
	services.NewLibraryService,
	wire.Bind(new(services.LibraryServiceInterface), new(*services.LibraryService)),
)

func InitDeviceApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		deviceSet,
		controllers.NewLibraryController,
		controllers.NewDeviceHealthController,
		internal.InitDeviceRoutes,
		internal.NewDeviceApp,
	)

	return nil, nil
}

func InitDeviceTool(cfg *structures.CliFlags) (*internal.Tool, error) {

	wire.Build(
		deviceSet,
		internal.NewTool,
	)

	return nil, nil
}

func InitCloudApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		ambientSet,
		providers.NewInstrumentedCacheProvider,
		providers.NewRateLimiter,
		cloud.NewBackend,
		services.NewCloudService,
		controllers.NewCloudController,
		controllers.NewCloudHealthController,
		internal.InitCloudRoutes,
		internal.NewCloudApp,
	)

	return nil, nil
}
