package routes

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/stopwatch/pkg/departures"
	"github.com/travigo/stopwatch/pkg/digitransit"
)

type SnapshotReader interface {
	CurrentSnapshot(ctx context.Context) (departures.Snapshot, error)
}

type StopTracker interface {
	Track(ctx context.Context, stop departures.StopConfig) (*departures.StopState, error)
}

func StopsRouter(router fiber.Router, snapshots SnapshotReader, tracker StopTracker) {
	router.Get("/", func(c *fiber.Ctx) error { return listStops(c, snapshots) })
	router.Get("/:identifier", func(c *fiber.Ctx) error { return getStop(c, snapshots) })
	router.Post("/:identifier/track", func(c *fiber.Ctx) error { return trackStop(c, tracker) })
}

func listStops(c *fiber.Ctx, snapshots SnapshotReader) error {
	snapshot, err := snapshots.CurrentSnapshot(c.Context())
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	stopsReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic"},
	}, snapshot.Stops())
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce stops",
		})
	}

	return c.JSON(fiber.Map{
		"cycle_id":   snapshot.CycleID(),
		"created_at": snapshot.CreatedAt(),
		"stops":      stopsReduced,
	})
}

func getStop(c *fiber.Ctx, snapshots SnapshotReader) error {
	identifier := c.Params("identifier")

	snapshot, err := snapshots.CurrentSnapshot(c.Context())
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	stop, exists := snapshot.Get(identifier)
	if !exists {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	}

	return sendDetailedStop(c, stop)
}

func trackStop(c *fiber.Ctx, tracker StopTracker) error {
	if tracker == nil {
		c.SendStatus(fiber.StatusNotImplemented)
		return c.JSON(fiber.Map{
			"error": "Tracking is not available on this server",
		})
	}

	stopConfig := departures.StopConfig{
		StopID: c.Params("identifier"),
		Accept: departures.ParseAcceptSet(c.Query("lines")),
	}

	stop, err := tracker.Track(c.Context(), stopConfig)
	if errors.Is(err, digitransit.ErrStopNotFound) {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	} else if err != nil {
		c.SendStatus(upstreamStatus(err))
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return sendDetailedStop(c, stop)
}

// upstreamStatus maps a schedule source failure to a response status, 503 when the subscription key is rejected
func upstreamStatus(err error) int {
	var statusError *digitransit.StatusError
	if errors.As(err, &statusError) && statusError.Unauthorized() {
		return fiber.StatusServiceUnavailable
	}

	return fiber.StatusBadGateway
}

func sendDetailedStop(c *fiber.Ctx, stop *departures.StopState) error {
	stopReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"detailed"},
	}, stop)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce stop",
		})
	}

	return c.JSON(stopReduced)
}
