package grid

import (
	"context"
	"encoding/json"
	"errors"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/gamedb/gridview/pkg/entities"
	"github.com/google/go-cmp/cmp"
)

type staticLoader map[string]datatable.Entity

func (l staticLoader) Load(ctx context.Context, ids []datatable.ID) (map[string]datatable.Entity, error) {

	ret := map[string]datatable.Entity{}
	for _, id := range ids {
		if e, ok := l[id.String()]; ok {
			ret[id.String()] = e
		}
	}
	return ret, nil
}

type failingLoader struct{}

func (failingLoader) Load(ctx context.Context, ids []datatable.ID) (map[string]datatable.Entity, error) {
	return nil, errors.New("entity source down")
}

type remote struct {
	server   *httptest.Server
	requests []map[string]json.RawMessage
	lock     sync.Mutex
}

func newRemote(t *testing.T, status int, body string) *remote {

	r := &remote{}
	r.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {

		b, _ := ioutil.ReadAll(req.Body)

		var m map[string]json.RawMessage
		_ = json.Unmarshal(b, &m)

		r.lock.Lock()
		r.requests = append(r.requests, m)
		r.lock.Unlock()

		if req.Method != http.MethodPost || req.Header.Get("Content-Type") != "application/json; charset=utf-8" {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))

	t.Cleanup(r.server.Close)
	return r
}

func newGrid(url string, loader entities.Loader) (*Grid, *[]Event) {

	var events []Event
	emitter := NewEmitter()
	for _, e := range []Event{EventSuccess, EventError, EventComplete} {
		emitter.On(e, func(s Signal) { events = append(events, s.Event) })
	}

	g := &Grid{
		ID:        "test",
		Table:     "people",
		URL:       url,
		Columns:   datatable.Columns{datatable.NewColumn("name", nil), datatable.NewColumn("age", nil)},
		History:   datatable.NewOrderHistory(nil),
		Cache:     entities.NewCollection("people", loader, 0),
		Transport: NewHTTPTransport(time.Second * 5),
		Events:    emitter,
	}

	return g, &events
}

var people = staticLoader{
	"1": {"name": "A", "age": "9"},
	"2": {"name": "B", "age": "8"},
}

func fetch(t *testing.T, g *Grid, params datatable.RequestParams) datatable.RowBatch {

	var batches []datatable.RowBatch
	g.Fetch(context.Background(), params, func(b datatable.RowBatch) {
		batches = append(batches, b)
	})

	if len(batches) != 1 {
		t.Fatalf("callback called %d times", len(batches))
	}
	return batches[0]
}

func TestFetchSuccess(t *testing.T) {

	r := newRemote(t, http.StatusOK, `{"list":[2,1,3],"fullListSize":57}`)
	g, events := newGrid(r.server.URL, people)

	params, err := datatable.ParseRequestParams([]byte(`{"draw":"6","start":0,"length":3,"order":[{"column":1,"dir":"asc"}]}`))
	if err != nil {
		t.Fatal(err)
	}

	batch := fetch(t, g, params)

	want := datatable.RowBatch{
		Data:            []datatable.Row{{"B", "8"}, {"A", "9"}},
		RecordsTotal:    57,
		RecordsFiltered: 57,
		Draw:            6,
	}
	if diff := cmp.Diff(want, batch); diff != "" {
		t.Errorf("batch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]Event{EventSuccess, EventComplete}, *events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestFetchSendsMergedOrder(t *testing.T) {

	r := newRemote(t, http.StatusOK, `{"list":[],"fullListSize":0}`)
	g, _ := newGrid(r.server.URL, people)

	fetch(t, g, datatable.NewRequestParams(1, datatable.Order{{Column: 0, Dir: datatable.Asc}}))
	fetch(t, g, datatable.NewRequestParams(2, datatable.Order{{Column: 1, Dir: datatable.Desc}, {Column: 9, Dir: datatable.Asc}}))

	if len(r.requests) != 2 {
		t.Fatalf("want one remote call per fetch, got %d", len(r.requests))
	}

	var order datatable.Order
	err := json.Unmarshal(r.requests[1]["order"], &order)
	if err != nil {
		t.Fatal(err)
	}

	want := datatable.Order{{Column: 1, Dir: datatable.Desc}, {Column: 0, Dir: datatable.Asc}}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Errorf("sent order (-want +got):\n%s", diff)
	}

	if string(r.requests[1]["draw"]) != "2" {
		t.Error("draw not passed through", string(r.requests[1]["draw"]))
	}
}

func TestFetchRemoteError(t *testing.T) {

	r := newRemote(t, http.StatusInternalServerError, `{"list":[1],"fullListSize":1}`)
	g, events := newGrid(r.server.URL, people)

	batch := fetch(t, g, datatable.NewRequestParams(3, nil))

	want := datatable.RowBatch{Data: []datatable.Row{}, Draw: 3}
	if diff := cmp.Diff(want, batch); diff != "" {
		t.Errorf("batch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]Event{EventError, EventComplete}, *events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestFetchBadBody(t *testing.T) {

	r := newRemote(t, http.StatusOK, `<html>`)
	g, events := newGrid(r.server.URL, people)

	batch := fetch(t, g, datatable.NewRequestParams(4, nil))
	if len(batch.Data) != 0 || batch.RecordsTotal != 0 || batch.RecordsFiltered != 0 {
		t.Errorf("expected empty batch, got %+v", batch)
	}

	if diff := cmp.Diff([]Event{EventError, EventComplete}, *events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestFetchResultWithoutList(t *testing.T) {

	for _, body := range []string{`null`, `{}`, `{"fullListSize":10}`, `{"list":null}`} {

		r := newRemote(t, http.StatusOK, body)
		g, events := newGrid(r.server.URL, people)

		batch := fetch(t, g, datatable.NewRequestParams(4, nil))
		if len(batch.Data) != 0 || batch.RecordsTotal != 0 {
			t.Errorf("%s: expected empty batch, got %+v", body, batch)
		}

		if diff := cmp.Diff([]Event{EventError, EventComplete}, *events); diff != "" {
			t.Errorf("%s: events (-want +got):\n%s", body, diff)
		}
	}

	// An empty page is still a result
	r := newRemote(t, http.StatusOK, `{"list":[],"fullListSize":0}`)
	g, events := newGrid(r.server.URL, people)
	fetch(t, g, datatable.NewRequestParams(4, nil))

	if diff := cmp.Diff([]Event{EventSuccess, EventComplete}, *events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestFetchUnreachable(t *testing.T) {

	g, events := newGrid("http://127.0.0.1:1/nothing", people)

	batch := fetch(t, g, datatable.NewRequestParams(5, nil))
	if len(batch.Data) != 0 || batch.Draw != 5 {
		t.Errorf("unexpected batch %+v", batch)
	}

	if diff := cmp.Diff([]Event{EventError, EventComplete}, *events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestFetchHydrationError(t *testing.T) {

	r := newRemote(t, http.StatusOK, `{"list":[1],"fullListSize":1}`)
	g, events := newGrid(r.server.URL, failingLoader{})

	batch := fetch(t, g, datatable.NewRequestParams(8, nil))
	if len(batch.Data) != 0 || batch.RecordsTotal != 0 {
		t.Errorf("expected empty batch, got %+v", batch)
	}

	if diff := cmp.Diff([]Event{EventSuccess, EventError, EventComplete}, *events); diff != "" {
		t.Errorf("events (-want +got):\n%s", diff)
	}
}

func TestEmitterOff(t *testing.T) {

	e := NewEmitter()

	calls := 0
	e.On(EventComplete, func(s Signal) { calls++ })
	e.On(EventComplete, func(s Signal) { calls++ })

	e.Trigger(Signal{Event: EventComplete})
	e.Off(EventComplete)
	e.Trigger(Signal{Event: EventComplete})

	if calls != 2 {
		t.Error("calls", calls)
	}
}

func TestRegistry(t *testing.T) {

	tables := []Table{{
		Name:    "people",
		URL:     "http://remote/people",
		Columns: datatable.Columns{datatable.NewColumn("name", nil)},
		Cache:   entities.NewCollection("people", people, 0),
	}}

	created := 0
	r := NewRegistry(tables, NewHTTPTransport(time.Second), time.Hour)
	r.OnCreate = func(g *Grid) { created++ }

	a, err := r.Grid("s1", "people", "/people")
	if err != nil {
		t.Fatal(err)
	}

	b, _ := r.Grid("s1", "people", "/people")
	c, _ := r.Grid("s2", "people", "/people")
	d, _ := r.Grid("s1", "people", "/other")

	if a != b {
		t.Error("same session, table and page should share a grid")
	}
	if a == c || a == d {
		t.Error("grids should be per session and page")
	}
	if a.Cache != c.Cache {
		t.Error("grids over one table share the entity cache")
	}
	if created != 3 || r.Len() != 3 {
		t.Error("created", created, r.Len())
	}

	_, err = r.Grid("s1", "nope", "/")
	if !errors.Is(err, ErrUnknownTable) {
		t.Error("expected unknown table", err)
	}

	// Reloaded definitions apply to new grids only
	r.SetTables([]Table{{Name: "nope", URL: "http://remote/nope", Cache: entities.NewCollection("nope", people, 0)}})

	if _, ok := r.Table("people"); ok {
		t.Error("people should be gone")
	}
	if _, err = r.Grid("s1", "nope", "/"); err != nil {
		t.Error(err)
	}

	e, _ := r.Grid("s1", "people", "/people")
	if e != nil {
		t.Error("removed tables should not hand out grids")
	}
}
