package middleware

import (
	"io"
	"net/http"

	log "github.com/sirupsen/logrus"
)

// DrainAndCloseRequest reads what the handler left of the request body, up to maxDrainBytes,
// and closes it. Bodies larger than that (e.g. a rejected oversized import) are only closed.
func DrainAndCloseRequest(maxDrainBytes int64) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil {
				return
			}
			if _, err := io.CopyN(io.Discard, r.Body, maxDrainBytes); err != nil && err != io.EOF {
				log.Tracef("drain request body [%s]: %s", r.URL.Path, err)
			}
			_ = r.Body.Close()
		})
	}
}
