package datatable

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/derekstavis/go-qs"
	"github.com/pkg/errors"
)

const (
	fieldDraw  = "draw"
	fieldOrder = "order"
)

// RequestParams are the parameters the widget sends for one draw.
// Only draw and order are interpreted, every other field (start, length,
// search, columns) is passed through to the remote source untouched.
type RequestParams struct {
	fields map[string]json.RawMessage
	order  Order
}

func NewRequestParams(draw int, order Order) RequestParams {

	return RequestParams{
		fields: map[string]json.RawMessage{fieldDraw: json.RawMessage(strconv.Itoa(draw))},
		order:  order.Copy(),
	}
}

// ParseRequestParams reads params from a JSON body
func ParseRequestParams(b []byte) (params RequestParams, err error) {

	err = json.Unmarshal(b, &params)
	return params, err
}

// ParseRequestQuery reads params from the widget's default GET encoding, eg order[0][column]=1
func ParseRequestQuery(values url.Values) (params RequestParams, err error) {

	if len(values) == 0 {
		return NewRequestParams(0, nil), nil
	}

	m, err := qs.Unmarshal(values.Encode())
	if err != nil {
		return params, errors.Wrap(err, "parsing query")
	}

	b, err := json.Marshal(m)
	if err != nil {
		return params, err
	}

	return ParseRequestParams(b)
}

func (p *RequestParams) UnmarshalJSON(b []byte) error {

	var fields map[string]json.RawMessage

	err := json.Unmarshal(b, &fields)
	if err != nil {
		return err
	}

	if fields == nil {
		return errors.New("request params must be an object")
	}

	var order Order
	if raw, ok := fields[fieldOrder]; ok {
		err = json.Unmarshal(raw, &order)
		if err != nil {
			return errors.Wrap(err, "decoding order")
		}
		delete(fields, fieldOrder)
	}

	p.fields = fields
	p.order = order
	return nil
}

func (p RequestParams) MarshalJSON() ([]byte, error) {

	out := make(map[string]interface{}, len(p.fields)+1)
	for k, v := range p.fields {
		out[k] = v
	}

	order := p.order
	if order == nil {
		order = Order{}
	}
	out[fieldOrder] = order

	return json.Marshal(out)
}

func (p RequestParams) Order() Order {
	return p.order.Copy()
}

func (p *RequestParams) SetOrder(order Order) {
	p.order = order.Copy()
}

// Draw is the integer value of the draw counter.
// Strings are read like the widget's parseInt, an unreadable value gives 0.
func (p RequestParams) Draw() int {

	raw, ok := p.fields[fieldDraw]
	if !ok {
		return 0
	}

	var s string
	if json.Unmarshal(raw, &s) != nil {
		s = string(raw)
	}

	return parseInt(s)
}

// Field returns a passed through field
func (p RequestParams) Field(key string) (json.RawMessage, bool) {
	v, ok := p.fields[key]
	return v, ok
}

// Int reads a passed through numeric field such as start or length
func (p RequestParams) Int(key string) int {

	raw, ok := p.fields[key]
	if !ok {
		return 0
	}

	var s string
	if json.Unmarshal(raw, &s) != nil {
		s = string(raw)
	}

	return parseInt(s)
}

func parseInt(s string) int {

	s = strings.TrimSpace(s)

	end := 0
	for end < len(s) {
		c := s[end]
		if (c == '-' || c == '+') && end == 0 {
			end++
			continue
		}
		if c < '0' || c > '9' {
			break
		}
		end++
	}

	i, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return i
}
