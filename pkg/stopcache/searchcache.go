package stopcache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	redisstore "github.com/eko/gocache/store/redis/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/stopwatch/pkg/digitransit"
)

const searchExpiration = 90 * time.Minute

type StopSearcher interface {
	SearchStops(ctx context.Context, text string) ([]digitransit.SearchResult, error)
}

// SearchCache remembers stop search results in Redis
type SearchCache struct {
	Searcher StopSearcher
	Cache    *cache.Cache[string]
}

func NewSearchCache(client *redis.Client, searcher StopSearcher) *SearchCache {
	redisStore := redisstore.NewRedis(client, store.WithExpiration(searchExpiration))

	return &SearchCache{
		Searcher: searcher,
		Cache:    cache.New[string](redisStore),
	}
}

func searchKey(text string) string {
	return fmt.Sprintf("stopwatch:search:%s", strings.ToLower(strings.TrimSpace(text)))
}

func (s *SearchCache) SearchStops(ctx context.Context, text string) ([]digitransit.SearchResult, error) {
	key := searchKey(text)

	cachedValue, err := s.Cache.Get(ctx, key)
	if err == nil {
		var results []digitransit.SearchResult
		if err := json.Unmarshal([]byte(cachedValue), &results); err == nil {
			return results, nil
		}
	} else if !isNotFound(err) {
		log.Warn().Err(err).Str("text", text).Msg("Failed to read search cache")
	}

	results, err := s.Searcher.SearchStops(ctx, text)
	if err != nil {
		return nil, err
	}

	resultsJSON, _ := json.Marshal(results)
	if err := s.Cache.Set(ctx, key, string(resultsJSON)); err != nil {
		log.Warn().Err(err).Str("text", text).Msg("Failed to write search cache")
	}

	return results, nil
}
