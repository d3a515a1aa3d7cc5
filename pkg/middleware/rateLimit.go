package middleware

import (
	"context"
	"net/http"

	"github.com/gamedb/gridview/pkg/helpers"
	"github.com/gamedb/gridview/pkg/log"
	"github.com/gamedb/gridview/pkg/ratelimit"
)

// RateLimiterWait queues requests over the limit until the client's bucket refills
func RateLimiterWait(limiters *ratelimit.Limiters) func(http.Handler) http.Handler {

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			err := limiters.GetLimiter(r.RemoteAddr).Wait(r.Context())
			if err != nil {
				err = helpers.IgnoreErrors(err, context.Canceled)
				if err != nil {
					log.DebugS(err)
				}
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
