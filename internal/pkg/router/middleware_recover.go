package router

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/shandysiswandi/notekeep/internal/pkg/stacktrace"
)

func middlewareRecoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rvr := recover()
			if rvr == nil {
				return
			}
			//nolint:errorlint // sentinel must propagate untouched
			if rvr == http.ErrAbortHandler {
				panic(rvr)
			}

			stack := debug.Stack()
			var trace any = string(stack)
			if paths := stacktrace.InternalPaths(stack); len(paths) > 0 {
				trace = paths
			}
			slog.ErrorContext(r.Context(), "panic recovered",
				"method", r.Method,
				"path", matchedRoutePath(r),
				"panic", rvr,
				"stack", trace,
			)

			writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		}()

		next.ServeHTTP(w, r)
	})
}
