package grid

import (
	"sync"
	"time"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/gamedb/gridview/pkg/entities"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

var ErrUnknownTable = errors.New("unknown table")

// Table is what every grid over the same data shares
type Table struct {
	Name    string
	URL     string
	Columns datatable.Columns
	Cache   entities.Cache
}

// Registry holds one grid per browser session, table and page.
// Grids expire after ttl without requests.
type Registry struct {
	tables    map[string]Table
	transport Transport
	grids     *cache.Cache
	lock      sync.Mutex

	// OnCreate is called for each new grid, to attach event handlers
	OnCreate func(g *Grid)
}

func NewRegistry(tables []Table, transport Transport, ttl time.Duration) *Registry {

	r := &Registry{
		tables:    map[string]Table{},
		transport: transport,
		grids:     cache.New(ttl, time.Minute),
	}

	for _, t := range tables {
		r.tables[t.Name] = t
	}

	return r
}

func (r *Registry) Table(name string) (Table, bool) {

	r.lock.Lock()
	defer r.lock.Unlock()

	t, ok := r.tables[name]
	return t, ok
}

func (r *Registry) Tables() (tables []Table) {

	r.lock.Lock()
	defer r.lock.Unlock()

	for _, t := range r.tables {
		tables = append(tables, t)
	}
	return tables
}

// SetTables swaps the table definitions. Grids already handed out keep the
// definition they were built with, until they expire.
func (r *Registry) SetTables(tables []Table) {

	m := make(map[string]Table, len(tables))
	for _, t := range tables {
		m[t.Name] = t
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	r.tables = m
}

func gridKey(session, table, path string) string {
	return session + "|" + table + "|" + path
}

// Grid returns the grid for the session, table and page, creating it on first use
func (r *Registry) Grid(session string, table string, path string) (*Grid, error) {

	r.lock.Lock()
	defer r.lock.Unlock()

	t, ok := r.tables[table]
	if !ok {
		return nil, errors.Wrap(ErrUnknownTable, table)
	}

	key := gridKey(session, table, path)

	if v, ok := r.grids.Get(key); ok {

		g := v.(*Grid)
		r.grids.SetDefault(key, g) // Touch
		return g, nil
	}

	g := &Grid{
		ID:        uuid.New().String(),
		Session:   session,
		Table:     t.Name,
		URL:       t.URL,
		Columns:   t.Columns,
		History:   datatable.NewOrderHistory(nil),
		Cache:     t.Cache,
		Transport: r.transport,
		Events:    NewEmitter(),
	}

	if r.OnCreate != nil {
		r.OnCreate(g)
	}

	r.grids.SetDefault(key, g)

	return g, nil
}

func (r *Registry) Len() int {
	return r.grids.ItemCount()
}
