package middleware

import (
	"crypto/subtle"
	"net/http"

	"gatherly/pkg/logger"
)

const AdminPasswordHeader = "X-Admin-Password"

// AdminAuth gates the administrative surface behind a shared secret
// carried in the X-Admin-Password header. With no password configured
// the admin surface is closed entirely rather than left open.
func AdminAuth(password string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			supplied := r.Header.Get(AdminPasswordHeader)

			if password == "" || subtle.ConstantTimeCompare([]byte(supplied), []byte(password)) != 1 {
				log.Warn("Admin request rejected",
					"request_id", RequestID(r.Context()),
					"path", r.URL.Path,
					"method", r.Method,
					"remote_addr", r.RemoteAddr,
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":"Invalid admin credentials"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
