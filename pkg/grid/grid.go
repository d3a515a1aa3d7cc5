package grid

import (
	"context"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/gamedb/gridview/pkg/entities"
	"github.com/gamedb/gridview/pkg/log"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Grid is the server side of one widget instance: a fixed column schema, the
// column order history and the fetch cycle tying the remote source to the entity cache.
type Grid struct {
	ID        string
	Session   string
	Table     string
	URL       string
	Columns   datatable.Columns
	History   *datatable.OrderHistory
	Cache     entities.Cache
	Transport Transport
	Events    *Emitter
}

// Fetch runs one draw. The callback is called exactly once, with rows on
// success or an empty batch on any failure, and EventComplete follows it either way.
//
// Overlapping calls are not queued and their results are not ordered, the
// widget discards stale draws by their draw number.
func (g *Grid) Fetch(ctx context.Context, params datatable.RequestParams, callback func(datatable.RowBatch)) {

	logger := log.Named(log.LogNameGrid).With(zap.String("grid", g.ID), zap.String("table", g.Table), zap.Int("draw", params.Draw()))

	order, dropped := g.Columns.Valid(params.Order())
	if len(dropped) > 0 {
		logger.Warn("dropping order on unknown columns", zap.Ints("columns", dropped.Columns()))
	}

	params.SetOrder(g.History.Merge(order))

	batch, err := g.fetch(ctx, params)
	if err != nil {

		logger.Info("fetch failed", zap.Error(err))

		g.trigger(Signal{Event: EventError, Draw: params.Draw(), Err: err})
		batch = datatable.EmptyRowBatch(params)
	}

	callback(batch)

	g.trigger(Signal{Event: EventComplete, Draw: params.Draw()})
}

func (g *Grid) fetch(ctx context.Context, params datatable.RequestParams) (batch datatable.RowBatch, err error) {

	result, err := g.Transport.Post(ctx, g.URL, params)
	if err != nil {
		return batch, err
	}

	g.trigger(Signal{Event: EventSuccess, Draw: params.Draw()})

	// Only translate once every id has been asked for
	err = g.Cache.FetchByIDs(ctx, result.List)
	if err != nil {
		return batch, errors.Wrap(err, "hydrating cache")
	}

	rows := datatable.Translate(result.List, g.Columns, g.Cache)

	return datatable.NewRowBatch(params, rows, result.FullListSize), nil
}

func (g *Grid) trigger(s Signal) {

	if g.Events == nil {
		return
	}

	s.Grid = g
	g.Events.Trigger(s)
}
