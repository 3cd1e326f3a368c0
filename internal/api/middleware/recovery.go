package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/loglens/loglens/internal/api/response"
)

// Recovery downgrades panics to a generic 500. Details stay in the server
// log; nothing internal crosses the boundary.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered",
					"error", err,
					"stack", string(debug.Stack()),
					"method", r.Method,
					"path", r.URL.Path,
				)
				response.Error(w, http.StatusInternalServerError, "Internal Server Error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
