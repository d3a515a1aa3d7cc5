package pages

import (
	"context"
	"encoding/json"
	"io/ioutil"
	"mime"
	"net/http"
	"strconv"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/gamedb/gridview/pkg/grid"
	"github.com/gamedb/gridview/pkg/log"
	"github.com/gamedb/gridview/pkg/session"
	"github.com/gamedb/gridview/pkg/settings"
	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// The widget's control layout, pagination on top then the filters, table and pagination again
const tableControls = `<"top-pagination" p><"filters" <"filter-row" <"showing-filter" li><"search-filter" f>>>rtp`

const maxBody = 1 << 20

func TablesRouter() http.Handler {
	r := chi.NewRouter()
	r.Route("/{table}", func(r chi.Router) {
		r.Get("/data", tableDataHandler)
		r.Post("/data", tableDataHandler)
		r.Get("/state", tableStateLoadHandler)
		r.Post("/state", tableStateSaveHandler)
		r.Get("/options", tableOptionsHandler)
	})
	return r
}

// tableOptions is the widget's init options
type tableOptions struct {
	Columns    []map[string]interface{} `json:"columns"`
	StateSave  bool                     `json:"stateSave"`
	ServerSide bool                     `json:"serverSide"`
	DOM        string                   `json:"dom"`
}

func tableOptionsHandler(w http.ResponseWriter, r *http.Request) {

	table, ok := registry.Table(chi.URLParam(r, "table"))
	if !ok {
		returnError(w, r, http.StatusNotFound)
		return
	}

	returnJSON(w, r, tableOptions{
		Columns:    table.Columns.Options(),
		StateSave:  true,
		ServerSide: true,
		DOM:        tableControls,
	})
}

func getGrid(w http.ResponseWriter, r *http.Request, path string) (g *grid.Grid, ok bool) {

	id, err := session.SessionID(w, r)
	if err != nil {
		log.ErrS(err)
		returnError(w, r, http.StatusInternalServerError)
		return nil, false
	}

	g, err = registry.Grid(id, chi.URLParam(r, "table"), path)
	if err != nil {
		if errors.Is(err, grid.ErrUnknownTable) {
			returnError(w, r, http.StatusNotFound)
		} else {
			log.ErrS(err)
			returnError(w, r, http.StatusInternalServerError)
		}
		return nil, false
	}

	return g, true
}

func tableDataHandler(w http.ResponseWriter, r *http.Request) {

	query := r.URL.Query()
	path := query.Get("path")

	g, ok := getGrid(w, r, path)
	if !ok {
		return
	}

	var params datatable.RequestParams
	var err error

	if r.Method == http.MethodPost && isForm(r) {

		// The widget's default POST encoding, the same keys as the GET query
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		err = r.ParseForm()
		if err == nil {
			params, err = datatable.ParseRequestQuery(r.PostForm)
		}

	} else if r.Method == http.MethodPost {

		var b []byte
		b, err = ioutil.ReadAll(http.MaxBytesReader(w, r.Body, maxBody))
		if err == nil {
			params, err = datatable.ParseRequestParams(b)
		}

	} else {

		query.Del("path")
		query.Del("_") // jQuery cache buster
		params, err = datatable.ParseRequestQuery(query)
	}

	if err != nil {
		log.Debug("bad table request", zap.String("table", g.Table), zap.Error(err))
		returnError(w, r, http.StatusBadRequest)
		return
	}

	// The fetch outlives a browser that navigates away, so the
	// order history and entity cache still see the response
	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()

	g.Fetch(ctx, params, func(batch datatable.RowBatch) {
		returnJSON(w, r, batch)
	})
}

func isForm(r *http.Request) bool {

	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mediaType == "application/x-www-form-urlencoded"
}

func getStore(w http.ResponseWriter, r *http.Request, path string) (store settings.Store, ok bool) {

	g, ok := getGrid(w, r, path)
	if !ok {
		return store, false
	}

	sessionID, err := session.SessionID(w, r)
	if err != nil {
		log.ErrS(err)
		returnError(w, r, http.StatusInternalServerError)
		return store, false
	}

	clientID, err := session.ClientID(w, r)
	if err != nil {
		log.ErrS(err)
		returnError(w, r, http.StatusInternalServerError)
		return store, false
	}

	store = settings.Store{
		Session: settings.Scoped(sessionBackend, sessionID),
		Durable: settings.Scoped(durableBackend, clientID),
		History: g.History,
		Path:    path,
		Columns: g.Columns,
	}

	return store, true
}

func tableStateLoadHandler(w http.ResponseWriter, r *http.Request) {

	query := r.URL.Query()

	store, ok := getStore(w, r, query.Get("path"))
	if !ok {
		return
	}

	duration, err := strconv.Atoi(query.Get("duration"))
	if err != nil {
		duration = 0
	}

	state, ok := store.Load(duration)
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	returnJSON(w, r, state)
}

type saveStateRequest struct {
	Path     string          `json:"path"`
	Duration int             `json:"duration"`
	State    json.RawMessage `json:"state"`
}

// Saving never fails from the widget's point of view
func tableStateSaveHandler(w http.ResponseWriter, r *http.Request) {

	var req saveStateRequest

	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&req)
	if err != nil {
		log.Debug("bad state request", zap.Error(err))
		w.WriteHeader(http.StatusNoContent)
		return
	}

	store, ok := getStore(w, r, req.Path)
	if !ok {
		return
	}

	var state settings.State
	if len(req.State) > 0 {
		err = json.Unmarshal(req.State, &state)
		if err != nil {
			log.Debug("bad state", zap.Error(err))
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}

	state.Duration = req.Duration
	store.Save(state)

	w.WriteHeader(http.StatusNoContent)
}
