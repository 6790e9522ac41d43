package catalog

import (
	"context"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Iron-Ham/cobalt/internal/model"
)

// DefaultCacheSize bounds each of a Cache's query caches.
const DefaultCacheSize = 32

// Cache answers repeated queries from bounded LRU caches in front of another
// repository. Errors are not cached. A Cache is safe for concurrent use.
type Cache struct {
	repo model.Repository

	actions         *lru.Cache[model.Widget, []*model.Action]
	functionalities *lru.Cache[model.Functionality, []model.RealizedFunctionality]
	tasks           *lru.Cache[model.Task, []model.RealizedTask]
	properties      *lru.Cache[model.Property, []model.PublishedProperty]
	distances       *lru.Cache[distanceKey, int]

	hits   atomic.Int64
	misses atomic.Int64
}

type distanceKey struct {
	request, offer model.Identifier
}

var _ model.Repository = (*Cache)(nil)

// NewCache wraps repo. A size below 1 selects DefaultCacheSize.
func NewCache(repo model.Repository, size int) (*Cache, error) {
	if size < 1 {
		size = DefaultCacheSize
	}
	c := &Cache{repo: repo}
	var err error
	if c.actions, err = lru.New[model.Widget, []*model.Action](size); err != nil {
		return nil, err
	}
	if c.functionalities, err = lru.New[model.Functionality, []model.RealizedFunctionality](size); err != nil {
		return nil, err
	}
	if c.tasks, err = lru.New[model.Task, []model.RealizedTask](size); err != nil {
		return nil, err
	}
	if c.properties, err = lru.New[model.Property, []model.PublishedProperty](size); err != nil {
		return nil, err
	}
	if c.distances, err = lru.New[distanceKey, int](size); err != nil {
		return nil, err
	}
	return c, nil
}

// CacheStats counts cache lookups.
type CacheStats struct {
	Hits   int64
	Misses int64
}

// Stats returns the lookup counters.
func (c *Cache) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Purge empties every cache.
func (c *Cache) Purge() {
	c.actions.Purge()
	c.functionalities.Purge()
	c.tasks.Purge()
	c.properties.Purge()
	c.distances.Purge()
}

// WidgetActions implements model.Repository.
func (c *Cache) WidgetActions(ctx context.Context, w model.Widget) ([]*model.Action, error) {
	return cached(c, c.actions, w, func() ([]*model.Action, error) {
		return c.repo.WidgetActions(ctx, w)
	})
}

// FunctionalityOffers implements model.Repository.
func (c *Cache) FunctionalityOffers(ctx context.Context, request model.Functionality) ([]model.RealizedFunctionality, error) {
	return cached(c, c.functionalities, request, func() ([]model.RealizedFunctionality, error) {
		return c.repo.FunctionalityOffers(ctx, request)
	})
}

// TaskOffers implements model.Repository.
func (c *Cache) TaskOffers(ctx context.Context, request model.Task) ([]model.RealizedTask, error) {
	return cached(c, c.tasks, request, func() ([]model.RealizedTask, error) {
		return c.repo.TaskOffers(ctx, request)
	})
}

// PropertyOffers implements model.Repository.
func (c *Cache) PropertyOffers(ctx context.Context, request model.Property) ([]model.PublishedProperty, error) {
	return cached(c, c.properties, request, func() ([]model.PublishedProperty, error) {
		return c.repo.PropertyOffers(ctx, request)
	})
}

// Distance implements model.Repository.
func (c *Cache) Distance(ctx context.Context, request, offer model.Identifier) (int, error) {
	return cached(c, c.distances, distanceKey{request, offer}, func() (int, error) {
		return c.repo.Distance(ctx, request, offer)
	})
}

func cached[K comparable, V any](c *Cache, cache *lru.Cache[K, V], key K, load func() (V, error)) (V, error) {
	if v, ok := cache.Get(key); ok {
		c.hits.Add(1)
		return v, nil
	}
	c.misses.Add(1)
	v, err := load()
	if err != nil {
		return v, err
	}
	cache.Add(key, v)
	return v, nil
}
