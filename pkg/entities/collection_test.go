package entities

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/google/go-cmp/cmp"
)

type fakeLoader struct {
	data  map[string]datatable.Entity
	calls [][]string
	err   error
}

func (f *fakeLoader) Load(ctx context.Context, ids []datatable.ID) (map[string]datatable.Entity, error) {

	var keys []string
	ret := map[string]datatable.Entity{}

	for _, id := range ids {
		keys = append(keys, id.String())
		if e, ok := f.data[id.String()]; ok {
			ret[id.String()] = e
		}
	}

	f.calls = append(f.calls, keys)

	if f.err != nil {
		return nil, f.err
	}
	return ret, nil
}

func TestCollectionFetchOnlyMissing(t *testing.T) {

	loader := &fakeLoader{data: map[string]datatable.Entity{
		"1": {"name": "a"},
		"2": {"name": "b"},
		"3": {"name": "c"},
	}}

	c := NewCollection("people", loader, 0)

	err := c.FetchByIDs(context.Background(), []datatable.ID{datatable.IntID(1), datatable.IntID(2), datatable.IntID(1)})
	if err != nil {
		t.Fatal(err)
	}

	err = c.FetchByIDs(context.Background(), []datatable.ID{datatable.IntID(2), datatable.IntID(3), datatable.IntID(9)})
	if err != nil {
		t.Fatal(err)
	}

	// Everything cached, no call
	err = c.FetchByIDs(context.Background(), []datatable.ID{datatable.IntID(1), datatable.IntID(3)})
	if err != nil {
		t.Fatal(err)
	}

	want := [][]string{{"1", "2"}, {"3", "9"}}
	if diff := cmp.Diff(want, loader.calls); diff != "" {
		t.Errorf("loader calls (-want +got):\n%s", diff)
	}

	if e, ok := c.Get(datatable.StringID("3")); !ok || e.Attr("name") != "c" {
		t.Error("3 should be cached", e)
	}

	if _, ok := c.Get(datatable.IntID(9)); ok {
		t.Error("9 doesn't exist")
	}

	if c.Len() != 3 {
		t.Error("len", c.Len())
	}
}

func TestCollectionLoaderError(t *testing.T) {

	loader := &fakeLoader{err: errors.New("down")}
	c := NewCollection("people", loader, 0)

	err := c.FetchByIDs(context.Background(), []datatable.ID{datatable.IntID(1)})
	if err == nil {
		t.Error("expected error")
	}
}

func TestHTTPLoader(t *testing.T) {

	var got []string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		b, _ := ioutil.ReadAll(r.Body)

		var payload struct {
			IDs []datatable.ID `json:"ids"`
		}
		err := json.Unmarshal(b, &payload)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		for _, id := range payload.IDs {
			got = append(got, id.String())
		}

		_, _ = w.Write([]byte(`[{"id": 1, "name": "a", "age": 9}, {"id": "2", "name": "b"}, {"name": "no id"}]`))
	}))
	defer server.Close()

	loader := HTTPLoader{URL: server.URL}

	entities, err := loader.Load(context.Background(), []datatable.ID{datatable.IntID(1), datatable.StringID("2")})
	if err != nil {
		t.Fatal(err)
	}

	sort.Strings(got)
	if diff := cmp.Diff([]string{"1", "2"}, got); diff != "" {
		t.Errorf("sent ids (-want +got):\n%s", diff)
	}

	if len(entities) != 2 {
		t.Fatalf("want 2 entities, got %d", len(entities))
	}

	if entities["1"].Attr("age") != json.Number("9") {
		t.Error("numbers should be kept as written", entities["1"].Attr("age"))
	}
	if entities["2"].Attr("name") != "b" {
		t.Error("2")
	}
}

func TestHTTPLoaderNotFound(t *testing.T) {

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	loader := HTTPLoader{URL: server.URL, Retries: 3}

	_, err := loader.Load(context.Background(), []datatable.ID{datatable.IntID(1)})
	if err == nil {
		t.Error("expected error")
	}

	if calls != 1 {
		t.Error("4xx should not be retried, calls:", calls)
	}
}
