package datatable

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) Valid() bool {
	return d == Asc || d == Desc
}

// SortDirective is one entry of an ordering, in the widget's wire format
type SortDirective struct {
	Column int       `json:"column"`
	Dir    Direction `json:"dir"`
}

func (s *SortDirective) UnmarshalJSON(b []byte) error {

	var raw struct {
		Column json.RawMessage `json:"column"`
		Dir    string          `json:"dir"`
	}

	err := json.Unmarshal(b, &raw)
	if err != nil {
		return err
	}

	// Query string params arrive as strings
	col := strings.Trim(string(bytes.TrimSpace(raw.Column)), `"`)

	s.Column, err = strconv.Atoi(col)
	if err != nil {
		return errors.Errorf("invalid order column: %s", raw.Column)
	}

	s.Dir = Direction(strings.ToLower(raw.Dir))
	if !s.Dir.Valid() {
		return errors.Errorf("invalid order direction: %q", raw.Dir)
	}

	return nil
}

// Order is a list of directives, highest priority first
type Order []SortDirective

// UnmarshalJSON accepts an array, or an object keyed by position as produced by query string parsing
func (o *Order) UnmarshalJSON(b []byte) error {

	b = bytes.TrimSpace(b)

	if bytes.Equal(b, []byte("null")) {
		*o = Order{}
		return nil
	}

	if len(b) > 0 && b[0] == '{' {

		var m map[string]SortDirective
		err := json.Unmarshal(b, &m)
		if err != nil {
			return err
		}

		var positions []int
		for k := range m {
			i, err := strconv.Atoi(k)
			if err != nil {
				return errors.Errorf("invalid order position: %q", k)
			}
			positions = append(positions, i)
		}

		sort.Ints(positions)

		ret := make(Order, 0, len(positions))
		for _, i := range positions {
			ret = append(ret, m[strconv.Itoa(i)])
		}

		*o = ret
		return nil
	}

	var list []SortDirective
	err := json.Unmarshal(b, &list)
	if err != nil {
		return err
	}

	*o = append(Order{}, list...)
	return nil
}

func (o Order) Columns() (cols []int) {

	cols = make([]int, 0, len(o))
	for _, v := range o {
		cols = append(cols, v.Column)
	}
	return cols
}

func (o Order) Copy() Order {
	return append(Order{}, o...)
}
