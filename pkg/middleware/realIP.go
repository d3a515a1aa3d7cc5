package middleware

import (
	"net"
	"net/http"
	"strings"
)

// MiddlewareRealIP trusts the proxy headers, the service always runs behind one
func MiddlewareRealIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

		cf := r.Header.Get("cf-connecting-ip")
		nginx := r.Header.Get("x-real-ip")
		forwarded := r.Header.Get("x-forwarded-for")

		if cf != "" {
			r.RemoteAddr = cf
		} else if nginx != "" {
			r.RemoteAddr = nginx
		} else if forwarded != "" {
			r.RemoteAddr = strings.TrimSpace(strings.Split(forwarded, ",")[0])
		} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			r.RemoteAddr = host
		}

		next.ServeHTTP(w, r)
	})
}
