package pages

import (
	"net/http"

	"github.com/gamedb/gridview/pkg/log"
	"github.com/gamedb/gridview/pkg/session"
	"github.com/go-chi/chi/v5"
)

func WebsocketsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/tables", websocketsHandler)
	return r
}

// Streams the grid events of the caller's browser session
func websocketsHandler(w http.ResponseWriter, r *http.Request) {

	id, err := session.SessionID(w, r)
	if err != nil {
		log.ErrS(err)
		returnError(w, r, http.StatusInternalServerError)
		return
	}

	err = hub.Serve(w, r, id)
	if err != nil {
		log.DebugS(err) // Upgrade has already written the response
	}
}
