package datatable

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// ID is an entity id as sent by the remote source, either a JSON number or a JSON string
type ID struct {
	value   string
	numeric bool
}

func IntID(i int64) ID {
	return ID{value: strconv.FormatInt(i, 10), numeric: true}
}

func StringID(s string) ID {
	return ID{value: s}
}

func (id ID) String() string {
	return id.value
}

func (id ID) IsNumeric() bool {
	return id.numeric
}

// Value returns an int64 for integer ids, a float64 for other numbers and a string otherwise
func (id ID) Value() interface{} {

	if !id.numeric {
		return id.value
	}

	if i, err := strconv.ParseInt(id.value, 10, 64); err == nil {
		return i
	}

	f, _ := strconv.ParseFloat(id.value, 64)
	return f
}

func (id ID) MarshalJSON() ([]byte, error) {

	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *ID) UnmarshalJSON(b []byte) error {

	b = bytes.TrimSpace(b)

	if len(b) > 0 && b[0] == '"' {
		id.numeric = false
		return json.Unmarshal(b, &id.value)
	}

	var n json.Number
	err := json.Unmarshal(b, &n)
	if err != nil || n == "" {
		return errors.Errorf("invalid id: %s", b)
	}

	id.value = n.String()
	id.numeric = true
	return nil
}
