package settings

import (
	"encoding/json"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/pkg/errors"
)

const (
	fieldColumnOrder = "columnOrder"

	// DurationSession is the widget's stateDuration value for session scoped state
	DurationSession = -1
)

// State is the widget's own saved state, which is opaque here, plus the column order history
type State struct {
	Duration    int             `json:"-"`
	ColumnOrder datatable.Order `json:"-"`
	Fields      map[string]json.RawMessage
}

func (s State) Session() bool {
	return s.Duration == DurationSession
}

func (s State) MarshalJSON() ([]byte, error) {

	out := make(map[string]interface{}, len(s.Fields)+1)
	for k, v := range s.Fields {
		out[k] = v
	}

	order := s.ColumnOrder
	if order == nil {
		order = datatable.Order{}
	}
	out[fieldColumnOrder] = order

	return json.Marshal(out)
}

func (s *State) UnmarshalJSON(b []byte) error {

	var fields map[string]json.RawMessage

	err := json.Unmarshal(b, &fields)
	if err != nil {
		return err
	}

	if fields == nil {
		return errors.New("state must be an object")
	}

	var order datatable.Order
	if raw, ok := fields[fieldColumnOrder]; ok {
		err = json.Unmarshal(raw, &order)
		if err != nil {
			return errors.Wrap(err, "decoding column order")
		}
		delete(fields, fieldColumnOrder)
	}

	s.Fields = fields
	s.ColumnOrder = order
	return nil
}
