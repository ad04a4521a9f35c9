package internal

import (
	"net/http"
	"questlog/internal/controllers"
	"questlog/internal/providers"
)

func InitDeviceRoutes(lc *controllers.LibraryController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/library", http.HandlerFunc(lc.Library))
	routers.Get("/game", http.HandlerFunc(lc.Game))
	routers.Get("/summary", http.HandlerFunc(lc.Summary))
	routers.Get("/progress", http.HandlerFunc(lc.Progress))
	routers.Post("/progress", http.HandlerFunc(lc.SetProgress))
	routers.Get("/sync", http.HandlerFunc(lc.Sync))
	routers.Get("/export", http.HandlerFunc(lc.Export))
	routers.Post("/import", http.HandlerFunc(lc.Import))
	routers.Post("/link", http.HandlerFunc(lc.Link))
	routers.Get("/backups", http.HandlerFunc(lc.Backups))
	routers.Post("/backups/restore", http.HandlerFunc(lc.RestoreBackup))

	routers.Post("/games", http.HandlerFunc(lc.AddGame))
	routers.Post("/games/remove", http.HandlerFunc(lc.RemoveGame))
	routers.Post("/games/status", http.HandlerFunc(lc.UpdateStatus))
	routers.Post("/games/current", http.HandlerFunc(lc.SetCurrentGame))
	routers.Post("/saves", http.HandlerFunc(lc.CreateSave))
	routers.Post("/saves/current", http.HandlerFunc(lc.SetCurrentSave))

	routers.Post("/sessions/start", http.HandlerFunc(lc.StartSession))
	routers.Post("/sessions/pause", http.HandlerFunc(lc.PauseSession))
	routers.Post("/sessions/resume", http.HandlerFunc(lc.ResumeSession))
	routers.Post("/sessions/end", http.HandlerFunc(lc.EndSession))

	routers.Post("/checklist/toggle", http.HandlerFunc(lc.ToggleChapter))
	routers.Post("/collectibles/toggle", http.HandlerFunc(lc.ToggleCollectible))
	routers.Post("/milestones", http.HandlerFunc(lc.AddMilestone))
	routers.Post("/milestones/toggle", http.HandlerFunc(lc.ToggleMilestone))
	return routers
}

func InitCloudRoutes(cc *controllers.CloudController) providers.RouterProviderInterface {
	routers := providers.NewRouterProvider()

	routers.Get("/v1/state", http.HandlerFunc(cc.GetState))
	routers.Post("/v1/state", http.HandlerFunc(cc.PutState))
	return routers
}
