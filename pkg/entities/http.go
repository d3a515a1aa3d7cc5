package entities

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/gamedb/gridview/pkg/helpers"
	"github.com/pkg/errors"
)

const defaultIDField = "id"

// HTTPLoader posts {"ids": [...]} and expects a JSON array of objects
type HTTPLoader struct {
	URL     string
	IDField string
	Retries uint64
	Client  *http.Client
}

func (l HTTPLoader) Load(ctx context.Context, ids []datatable.ID) (map[string]datatable.Entity, error) {

	payload := struct {
		IDs []datatable.ID `json:"ids"`
	}{IDs: ids}

	// Fetching by id is idempotent, so retries are safe here
	body, err := helpers.PostJSONWithRetry(ctx, l.Client, l.URL, payload, l.Retries)
	if err != nil {
		return nil, err
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var records []map[string]interface{}
	err = decoder.Decode(&records)
	if err != nil {
		return nil, errors.Wrap(err, "decoding entities")
	}

	return keyed(records, l.idField()), nil
}

func (l HTTPLoader) idField() string {
	if l.IDField == "" {
		return defaultIDField
	}
	return l.IDField
}

func keyed(records []map[string]interface{}, idField string) map[string]datatable.Entity {

	ret := make(map[string]datatable.Entity, len(records))

	for _, record := range records {

		id, ok := record[idField]
		if !ok || id == nil {
			continue
		}

		ret[idString(id)] = datatable.Entity(record)
	}

	return ret
}

func idString(id interface{}) string {

	switch x := id.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
