package session

import (
	"net/http"

	"github.com/gamedb/gridview/pkg/config"
	"github.com/gamedb/gridview/pkg/log"
	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
)

const (
	// Lives until the browser closes, scopes session state
	CookieSession = "gridview-session"

	// Lives for 30 days, scopes durable state
	CookieClient = "gridview-client"

	valueID = "id"
)

var store *sessions.CookieStore

func Init() {

	auth := []byte(config.C.SessionAuthentication)
	enc := []byte(config.C.SessionEncryption)

	if len(auth) == 0 {
		log.Warn("no session keys set, sessions will not survive a restart")
		auth = securecookie.GenerateRandomKey(64)
		enc = securecookie.GenerateRandomKey(32)
	}

	store = sessions.NewCookieStore(auth, enc)
}

func options(maxAge int) *sessions.Options {

	o := &sessions.Options{
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
		Path:     "/",
		Domain:   config.C.SessionDomain,
		Secure:   config.IsProd(),
	}

	// Grids hosted on other origins send the cookies cross site,
	// browsers only allow that for secure cookies
	if len(config.GetOrigins()) > 0 {
		o.SameSite = http.SameSiteNoneMode
		o.Secure = true
	}

	return o
}

// SessionID is the id for the browser session, created when missing
func SessionID(w http.ResponseWriter, r *http.Request) (string, error) {
	return ensureID(w, r, CookieSession, 0)
}

// ClientID is the id for the browser, created when missing
func ClientID(w http.ResponseWriter, r *http.Request) (string, error) {
	return ensureID(w, r, CookieClient, 60*60*24*30)
}

func ensureID(w http.ResponseWriter, r *http.Request, name string, maxAge int) (string, error) {

	if store == nil {
		Init()
	}

	// A cookie that fails to decode still returns a usable new session
	sess, err := store.Get(r, name)
	if err != nil {
		log.DebugS(err)
	}

	if id, ok := sess.Values[valueID].(string); ok && id != "" {
		return id, nil
	}

	id := uuid.New().String()

	sess.Options = options(maxAge)
	sess.Values[valueID] = id

	err = sess.Save(r, w)
	if err != nil {
		return "", err
	}

	return id, nil
}
