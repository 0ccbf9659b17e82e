package stopcache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopwatch/pkg/departures"
)

const SnapshotKey = "stopwatch:snapshot"

// SnapshotMirror copies every installed snapshot into Redis as a single value,
// so readers in other processes see whole snapshots only
type SnapshotMirror struct {
	Cache      *cache.Cache[string]
	Expiration time.Duration
}

// NewSnapshotMirror keeps a mirrored snapshot for expiration after its last publish
func NewSnapshotMirror(client *redis.Client, expiration time.Duration) *SnapshotMirror {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(expiration))

	return &SnapshotMirror{
		Cache:      cache.New[string](redisStore),
		Expiration: expiration,
	}
}

func (m *SnapshotMirror) Publish(ctx context.Context, snapshot departures.Snapshot) error {
	snapshotJSON, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	if err := m.Cache.Set(ctx, SnapshotKey, string(snapshotJSON), store.WithExpiration(m.Expiration)); err != nil {
		return err
	}

	log.Debug().
		Str("cycle", snapshot.CycleID()).
		Int("stops", snapshot.Len()).
		Msg("Mirrored snapshot")

	return nil
}

// CurrentSnapshot returns the mirrored snapshot, or an empty one when nothing has been published yet
func (m *SnapshotMirror) CurrentSnapshot(ctx context.Context) (departures.Snapshot, error) {
	snapshotJSON, err := m.Cache.Get(ctx, SnapshotKey)
	if isNotFound(err) {
		return departures.NewSnapshot("", time.Time{}, nil), nil
	} else if err != nil {
		return departures.Snapshot{}, err
	}

	var snapshot departures.Snapshot
	if err := json.Unmarshal([]byte(snapshotJSON), &snapshot); err != nil {
		return departures.Snapshot{}, err
	}

	return snapshot, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, redis.Nil)
}
