package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/scout/internal/cache"
	"github.com/ppiankov/scout/internal/model"
)

// CachedFinder memoizes a PeopleFinder by content hash.
// Errors are not cached.
type CachedFinder struct {
	next   PeopleFinder
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedFinder wraps next. A zero ttl uses the cache's default.
func NewCachedFinder(next PeopleFinder, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedFinder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedFinder{next: next, cache: c, ttl: ttl, logger: logger}
}

func (f *CachedFinder) Name() string {
	return f.next.Name()
}

func (f *CachedFinder) FindPeople(ctx context.Context, content string) ([]model.DetectedPerson, error) {
	key := cache.Key("people:"+f.next.Name(), content)

	var people []model.DetectedPerson
	if cache.GetJSON(f.cache, key, &people) {
		f.logger.Debug("people cache hit", zap.String("key", key))
		return people, nil
	}

	people, err := f.next.FindPeople(ctx, content)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(f.cache, key, people, f.ttl); err != nil {
		f.logger.Warn("people cache write failed", zap.Error(err))
	}
	return people, nil
}
