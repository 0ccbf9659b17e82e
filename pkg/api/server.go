package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/stopwatch/pkg/api/routes"
)

// Backend is what the web API serves from. Tracker and Searcher are optional,
// their routes answer 501 when unset.
type Backend struct {
	Snapshots routes.SnapshotReader
	Tracker   routes.StopTracker
	Searcher  routes.StopSearcher
}

func NewApp(backend Backend) *fiber.App {
	webApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StopsRouter(group.Group("/stops"), backend.Snapshots, backend.Tracker)
	routes.SearchRouter(group.Group("/search"), backend.Searcher)

	return webApp
}

func SetupServer(listen string, backend Backend) error {
	return NewApp(backend).Listen(listen)
}
