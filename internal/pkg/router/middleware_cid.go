package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/notekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/notekeep/internal/pkg/uid"
)

const (
	HeaderCorrelationID = "X-Correlation-ID"
	// HeaderRequestID is honored when proxies set it instead.
	HeaderRequestID = "X-Request-ID"

	maxCorrelationIDLen = 128
)

// inboundCorrelationID returns the first usable client-supplied ID. Values
// that are too long or contain anything but visible ASCII are ignored so
// they cannot forge log lines or response headers.
func inboundCorrelationID(r *http.Request) string {
	for _, header := range []string{HeaderCorrelationID, HeaderRequestID} {
		v := strings.TrimSpace(r.Header.Get(header))
		if v == "" || len(v) > maxCorrelationIDLen {
			continue
		}
		if strings.IndexFunc(v, func(c rune) bool { return c < '!' || c > '~' }) >= 0 {
			continue
		}
		return v
	}
	return ""
}

func middlewareCorrelationID(gen uid.StringID) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cid := inboundCorrelationID(r)
			if cid == "" && gen != nil {
				cid = gen.Generate()
			}
			if cid == "" {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set(HeaderCorrelationID, cid)
			next.ServeHTTP(w, r.WithContext(instrument.SetCorrelationID(r.Context(), cid)))
		})
	}
}
