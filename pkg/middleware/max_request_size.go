package middleware

import (
	"net/http"

	"bokclean/pkg/logger"
)

// MaxRequestSize caps request body size. Oversized bodies surface as a
// read error in the handler; the handler's decode path reports 413.
func MaxRequestSize(maxBytes int, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > int64(maxBytes) {
				requestID := ""
				if rid := r.Context().Value(RequestIDKey); rid != nil {
					if id, ok := rid.(string); ok {
						requestID = id
					}
				}

				log.Warn("Request body too large",
					"request_id", requestID,
					"content_length", r.ContentLength,
					"max_bytes", maxBytes,
					"path", r.URL.Path,
				)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestEntityTooLarge)
				_, _ = w.Write([]byte(`{"error":"Request body too large"}`))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))
			next.ServeHTTP(w, r)
		})
	}
}
