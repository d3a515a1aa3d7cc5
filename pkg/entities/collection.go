package entities

import (
	"context"
	"time"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

// Cache is the entity store a grid reads from. FetchByIDs populates it,
// Get reads a single entity. Nothing in a grid deletes from it.
type Cache interface {
	FetchByIDs(ctx context.Context, ids []datatable.ID) error
	Get(id datatable.ID) (datatable.Entity, bool)
}

// Loader fetches entities from their source, keyed by id string
type Loader interface {
	Load(ctx context.Context, ids []datatable.ID) (map[string]datatable.Entity, error)
}

// Collection is an in memory Cache backed by a Loader, shared by every grid over the same table
type Collection struct {
	name   string
	items  *cache.Cache
	loader Loader
}

// NewCollection keeps entities for ttl, zero keeps them until the process exits
func NewCollection(name string, loader Loader, ttl time.Duration) *Collection {

	if ttl == 0 {
		ttl = cache.NoExpiration
	}

	return &Collection{
		name:   name,
		items:  cache.New(ttl, time.Minute*10),
		loader: loader,
	}
}

func (c *Collection) Name() string {
	return c.name
}

func (c *Collection) Get(id datatable.ID) (datatable.Entity, bool) {

	v, ok := c.items.Get(id.String())
	if !ok {
		return nil, false
	}

	e, ok := v.(datatable.Entity)
	return e, ok
}

func (c *Collection) Set(id datatable.ID, entity datatable.Entity) {
	c.items.SetDefault(id.String(), entity)
}

func (c *Collection) Len() int {
	return c.items.ItemCount()
}

// FetchByIDs loads the ids not already held. Ids the source doesn't know are
// not an error, they stay missing and are dropped at translation.
func (c *Collection) FetchByIDs(ctx context.Context, ids []datatable.ID) error {

	var missing []datatable.ID
	seen := map[string]bool{}

	for _, id := range ids {

		key := id.String()
		if seen[key] {
			continue
		}
		seen[key] = true

		if _, ok := c.items.Get(key); !ok {
			missing = append(missing, id)
		}
	}

	if len(missing) == 0 {
		return nil
	}

	loaded, err := c.loader.Load(ctx, missing)
	if err != nil {
		return errors.Wrap(err, "loading "+c.name)
	}

	for key, entity := range loaded {
		if entity != nil {
			c.items.SetDefault(key, entity)
		}
	}

	return nil
}
