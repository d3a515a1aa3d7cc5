package pages

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gamedb/gridview/pkg/grid"
	"github.com/gamedb/gridview/pkg/settings"
	"github.com/gamedb/gridview/pkg/websockets"
	"go.uber.org/zap"
)

var (
	registry       *grid.Registry
	sessionBackend settings.Backend
	durableBackend settings.Backend
	hub            *websockets.Hub
	remoteTimeout  = time.Second * 10
)

// Init must be called before any router is mounted
func Init(r *grid.Registry, session settings.Backend, durable settings.Backend, h *websockets.Hub, timeout time.Duration) {

	registry = r
	sessionBackend = session
	durableBackend = durable
	hub = h

	if timeout > 0 {
		remoteTimeout = timeout
	}
}

func setHeaders(w http.ResponseWriter, contentType string) {

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff") // MIME sniffing
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Server", "")
}

func returnJSON(w http.ResponseWriter, r *http.Request, i interface{}) {

	setHeaders(w, "application/json")

	b, err := json.Marshal(i)
	if err != nil {
		zap.S().Error(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	_, err = w.Write(b)
	if err != nil && !strings.Contains(err.Error(), "write: broken pipe") {
		zap.S().Error(err)
	}
}

func returnError(w http.ResponseWriter, r *http.Request, code int) {
	http.Error(w, http.StatusText(code), code)
}
