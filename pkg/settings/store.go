package settings

import (
	"encoding/json"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/gamedb/gridview/pkg/log"
	"go.uber.org/zap"
)

const KeyPrefix = "DataTables_settings_"

func Key(path string) string {
	return KeyPrefix + path
}

// Store loads and saves the widget state of one grid on one page.
//
// Saved state is best effort: every failure, from a missing key to a broken
// backend, shows up only as "nothing loaded" or "nothing saved".
type Store struct {
	Session Backend
	Durable Backend
	History *datatable.OrderHistory
	Path    string

	// Columns of the grid. The key is per page, so a saved order can come
	// from another grid on the same page; directives outside Columns are dropped.
	Columns datatable.Columns
}

func (s Store) backend(duration int) Backend {

	if duration == DurationSession {
		return s.Session
	}
	return s.Durable
}

// Load returns false when there is no usable saved state.
// On success the saved column order replaces the grid's history.
func (s Store) Load(duration int) (state State, ok bool) {

	logger := log.Named(log.LogNameSettings).With(zap.String("path", s.Path), zap.Int("duration", duration))

	backend := s.backend(duration)
	if backend == nil {
		return state, false
	}

	value, err := backend.Get(Key(s.Path))
	if err != nil {
		if err != ErrNotFound {
			logger.Debug("loading state", zap.Error(err))
		}
		return state, false
	}

	err = json.Unmarshal([]byte(value), &state)
	if err != nil {
		logger.Debug("decoding state", zap.Error(err))
		return State{}, false
	}

	state.Duration = duration

	if s.Columns != nil {
		var dropped datatable.Order
		state.ColumnOrder, dropped = s.Columns.Valid(state.ColumnOrder)
		if len(dropped) > 0 {
			logger.Debug("dropping saved order on unknown columns", zap.Ints("columns", dropped.Columns()))
		}
	}

	if s.History != nil {
		s.History.Restore(state.ColumnOrder)
		state.ColumnOrder = s.History.Directives()
	}

	return state, true
}

// Save writes the state with the grid's current column order
func (s Store) Save(state State) {

	logger := log.Named(log.LogNameSettings).With(zap.String("path", s.Path), zap.Int("duration", state.Duration))

	backend := s.backend(state.Duration)
	if backend == nil {
		return
	}

	if s.History != nil {
		state.ColumnOrder = s.History.Directives()
	}

	b, err := json.Marshal(state)
	if err != nil {
		logger.Debug("encoding state", zap.Error(err))
		return
	}

	err = backend.Set(Key(s.Path), string(b))
	if err != nil {
		logger.Debug("saving state", zap.Error(err))
	}
}
