package datatable

// Column is one grid column. Its position in Columns is the column number
// the widget reports in order directives, and the position of its cell in each row.
type Column struct {
	Key     string                 `json:"key"`
	Options map[string]interface{} `json:"options"`
}

// NewColumn defaults the display options to {"name": key}
func NewColumn(key string, options map[string]interface{}) Column {

	if options == nil {
		options = map[string]interface{}{"name": key}
	}

	return Column{Key: key, Options: options}
}

type Columns []Column

func (c Columns) Keys() (keys []string) {

	keys = make([]string, 0, len(c))
	for _, v := range c {
		keys = append(keys, v.Key)
	}
	return keys
}

// Options is the `columns` option for the widget
func (c Columns) Options() (options []map[string]interface{}) {

	options = make([]map[string]interface{}, 0, len(c))
	for _, v := range c {
		options = append(options, v.Options)
	}
	return options
}

// Valid drops directives pointing at columns that don't exist
func (c Columns) Valid(order Order) (valid Order, dropped Order) {

	valid = Order{}
	for _, v := range order {
		if v.Column >= 0 && v.Column < len(c) {
			valid = append(valid, v)
		} else {
			dropped = append(dropped, v)
		}
	}
	return valid, dropped
}
