package middleware

import "net/http"

// MaxBodySize caps the request body. Questionnaire payloads are small;
// anything beyond the cap fails the handler's decode with a clear error
// instead of tying up memory.
func MaxBodySize(limit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
