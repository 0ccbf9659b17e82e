package routes

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/travigo/stopwatch/pkg/digitransit"
)

type StopSearcher interface {
	SearchStops(ctx context.Context, text string) ([]digitransit.SearchResult, error)
}

func SearchRouter(router fiber.Router, searcher StopSearcher) {
	router.Get("/", func(c *fiber.Ctx) error { return searchStops(c, searcher) })
}

type searchResult struct {
	StopID string `json:"stop_id"`
	Name   string `json:"name"`
	Label  string `json:"label"`
	Code   string `json:"code"`
}

func searchStops(c *fiber.Ctx, searcher StopSearcher) error {
	if searcher == nil {
		c.SendStatus(fiber.StatusNotImplemented)
		return c.JSON(fiber.Map{
			"error": "Search is not available on this server",
		})
	}

	text := strings.TrimSpace(c.Query("text"))
	if text == "" {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"error": "A text query must be provided",
		})
	}

	results, err := searcher.SearchStops(c.Context(), text)
	if err != nil {
		c.SendStatus(upstreamStatus(err))
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	response := []searchResult{}
	for _, result := range results {
		response = append(response, searchResult{
			StopID: result.StopID(),
			Name:   result.Name,
			Label:  result.Label,
			Code:   result.Code,
		})
	}

	return c.JSON(response)
}
