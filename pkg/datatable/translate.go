package datatable

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Entity is one cached record, attributes by name
type Entity map[string]interface{}

// Attr returns nil for a missing attribute
func (e Entity) Attr(key string) interface{} {
	return e[key]
}

// Getter is the read side of the entity cache
type Getter interface {
	Get(id ID) (Entity, bool)
}

// Translate turns ids into rows, in id order, one cell per column in column order.
// Ids missing from the cache are dropped, so the result can be shorter than ids.
func Translate(ids []ID, columns Columns, cache Getter) []Row {

	rows := make([]Row, 0, len(ids))

	for _, id := range ids {

		entity, ok := cache.Get(id)
		if !ok || entity == nil {
			continue
		}

		row := make(Row, 0, len(columns))
		for _, col := range columns {
			row = append(row, EscapeExpression(cellString(entity.Attr(col.Key))))
		}

		rows = append(rows, row)
	}

	return rows
}

func cellString(v interface{}) string {

	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(x)
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
