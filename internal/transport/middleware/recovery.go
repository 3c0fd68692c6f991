package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"runtime/debug"

	appErrors "github.com/idlidosa1206/Fusion-System-Administrator/internal"
	"github.com/idlidosa1206/Fusion-System-Administrator/pkg/logger"
)

// RecoveryMiddleware turns a panic into a generic 500 and logs the stack.
func RecoveryMiddleware(lg *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				lg.Error("panic recovered",
					"error", rec,
					"request_id", logger.RequestID(r.Context()),
					"method", r.Method,
					"url", r.URL.String(),
					"stack", string(debug.Stack()))

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_ = json.NewEncoder(w).Encode(appErrors.Response{
					Error: appErrors.GenericInternalMessage,
					Code:  appErrors.ErrCodeInternal,
				})
			}()

			next.ServeHTTP(w, r)
		})
	}
}
