package router

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/notekeep/internal/pkg/config"
	"github.com/shandysiswandi/notekeep/internal/pkg/goerror"
	"github.com/shandysiswandi/notekeep/internal/pkg/instrument"
	"github.com/shandysiswandi/notekeep/internal/pkg/jwt"
	"github.com/shandysiswandi/notekeep/internal/pkg/uid"
	"github.com/shandysiswandi/notekeep/internal/pkg/validator"
)

type errorResponse struct {
	Message string            `json:"message" example:"Invalid OTP code"`
	Error   map[string]string `json:"error,omitempty"`
}

type successResponse struct {
	Message string         `json:"message" example:"OTP sent to jane@example.com"`
	Data    any            `json:"data" swaggertype:"object"`
	Meta    map[string]any `json:"meta,omitempty" swaggertype:"object"`
}

// Handler returns a payload to wrap in the success envelope, or an error to
// render as an error envelope. A payload may implement Message() string,
// StatusCode() int and Meta() map[string]any to shape the response.
type Handler func(r *Request) (any, error)

type Config struct {
	Config     config.Config
	UUID       uid.StringID // correlation IDs
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
	// Health backs GET /health. Nil means always healthy.
	Health func(ctx context.Context) error
}

// Router dispatches through httprouter with a fixed middleware chain.
type Router struct {
	hr  *httprouter.Router
	mws []Middleware
}

// publicRoutes are reachable without a bearer token.
var publicRoutes = newRouteSet(
	"GET /",
	"GET /health",
	"POST /api/v1/identity/otp/issue",
	"POST /api/v1/identity/otp/verify",
)

func NewRouter(cfg Config) *Router {
	hr := &httprouter.Router{
		RedirectTrailingSlash:  true,
		RedirectFixedPath:      true,
		HandleMethodNotAllowed: true,
		HandleOPTIONS:          true,
		SaveMatchedRoutePath:   true,
		NotFound: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "endpoint not found"}, http.StatusNotFound)
		}),
		MethodNotAllowed: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, errorResponse{Message: "method not allowed"}, http.StatusMethodNotAllowed)
		}),
	}

	ro := &Router{
		hr: hr,
		mws: []Middleware{
			middlewareRecoverer,
			middlewareIP,
			middlewareCorrelationID(cfg.UUID),
			middlewareObservability(cfg.Instrument),
			middlewareMaintenance(cfg.Config),
			middlewareAuthentication(cfg.JWT, publicRoutes),
		},
	}

	ro.GET("/", func(*Request) (any, error) { return welcome{Service: "notekeep"}, nil })
	ro.GET("/health", func(r *Request) (any, error) {
		if cfg.Health != nil {
			if err := cfg.Health(r.Context()); err != nil {
				return nil, goerror.NewServer(err, "Service unavailable")
			}
		}
		return healthResponse{Status: "ok"}, nil
	})

	return ro
}

type healthResponse struct {
	Status string `json:"status"`
}

func (healthResponse) Message() string { return "service is healthy" }

type welcome struct {
	Service string `json:"service"`
}

func (welcome) Message() string { return "Welcome to Notekeep API" }

func (r *Router) GET(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodGet, path, h, mws...)
}

func (r *Router) POST(path string, h Handler, mws ...Middleware) {
	r.Handle(http.MethodPost, path, h, mws...)
}

// Handle registers h behind the router middleware followed by mws.
func (r *Router) Handle(method, path string, h Handler, mws ...Middleware) {
	endpoint := http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		resp, err := h(&Request{Request: req})
		if err != nil {
			if rec, ok := w.(interface{ SetError(error) }); ok {
				rec.SetError(err)
			}
			renderError(w, err)
			return
		}
		renderSuccess(w, resp)
	})

	chain := make([]Middleware, 0, len(r.mws)+len(mws))
	chain = append(append(chain, r.mws...), mws...)
	r.hr.Handler(method, path, Chain(endpoint, chain...))
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.hr.ServeHTTP(w, req)
}

// renderError only exposes the client message of a *goerror.Error. Anything
// else is an unexpected failure and renders as a bare 500.
func renderError(w http.ResponseWriter, err error) {
	var gerr *goerror.Error
	if !errors.As(err, &gerr) {
		writeJSON(w, errorResponse{Message: "Internal server error"}, http.StatusInternalServerError)
		return
	}

	resp := errorResponse{Message: gerr.Msg(), Error: gerr.Fields()}
	var fieldErrs validator.V10ValidationError
	if errors.As(err, &fieldErrs) {
		resp.Error = fieldErrs.Values()
	}
	writeJSON(w, resp, gerr.StatusCode())
}

func renderSuccess(w http.ResponseWriter, resp any) {
	code := http.StatusOK
	if sc, ok := resp.(interface{ StatusCode() int }); ok {
		code = sc.StatusCode()
	}
	if resp == nil || code == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	env := successResponse{Message: "request has been successfully", Data: resp}
	if m, ok := resp.(interface{ Message() string }); ok {
		env.Message = m.Message()
	}
	if m, ok := resp.(interface{ Meta() map[string]any }); ok {
		env.Meta = m.Meta()
	}
	writeJSON(w, env, code)
}

func writeJSON(w http.ResponseWriter, data any, code int) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("router: failed to encode response", "error", err)
		http.Error(w, `{"message":"Internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	//nolint:errcheck // client may have gone away
	w.Write(append(body, '\n'))
}
