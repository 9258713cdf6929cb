package router

import (
	"net/http"
	"strings"

	"github.com/shandysiswandi/notekeep/internal/pkg/jwt"
)

// routeSet matches requests by "METHOD /path" or by bare "/path" for any
// method. Paths are the registered httprouter patterns, not raw URLs.
type routeSet map[string]struct{}

func newRouteSet(entries ...string) routeSet {
	s := make(routeSet, len(entries))
	for _, e := range entries {
		if e = strings.Join(strings.Fields(e), " "); e != "" {
			s[e] = struct{}{}
		}
	}
	return s
}

func (s routeSet) match(r *http.Request) bool {
	route := matchedRoutePath(r)
	if _, ok := s[r.Method+" "+route]; ok {
		return true
	}
	_, ok := s[route]
	return ok
}

func bearerToken(r *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(r.Header.Get("Authorization")), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", false
	}
	return token, true
}

func middlewareAuthentication(verifier jwt.JWT, public routeSet) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public.match(r) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				w.Header().Set("WWW-Authenticate", `Bearer realm="notekeep"`)
				writeJSON(w, errorResponse{Message: "Authentication required"}, http.StatusUnauthorized)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", `Bearer realm="notekeep", error="invalid_token"`)
				writeJSON(w, errorResponse{Message: "Invalid or expired token"}, http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(jwt.SetAuth(r.Context(), claims)))
		})
	}
}
