package router

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julienschmidt/httprouter"
	"github.com/shandysiswandi/notekeep/internal/pkg/instrument"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

// maxLoggedBody caps how much of each request and response body is kept
// for the access log.
const maxLoggedBody = 32 << 10

func matchedRoutePath(r *http.Request) string {
	if pattern := httprouter.ParamsFromContext(r.Context()).MatchedRoutePath(); pattern != "" {
		return pattern
	}
	return r.URL.Path
}

// responseRecorder tracks status, size and a capped copy of the body. The
// handler error, if any, is attached through SetError by the router.
type responseRecorder struct {
	http.ResponseWriter
	status    int
	written   int
	body      bytes.Buffer
	truncated bool
	err       error
}

func (w *responseRecorder) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseRecorder) Write(p []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}

	if room := maxLoggedBody - w.body.Len(); room < len(p) {
		w.body.Write(p[:max(room, 0)])
		w.truncated = true
	} else {
		w.body.Write(p)
	}

	n, err := w.ResponseWriter.Write(p)
	w.written += n
	return n, err
}

func (w *responseRecorder) SetError(err error) { w.err = err }

func (w *responseRecorder) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *responseRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("router: hijack not supported")
	}
	return h.Hijack()
}

func (w *responseRecorder) statusCode() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// peekBody reads up to maxLoggedBody bytes and restores r.Body so the
// handler still sees the full stream.
func peekBody(r *http.Request) []byte {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}

	//nolint:errcheck // logging only
	head, _ := io.ReadAll(io.LimitReader(r.Body, maxLoggedBody))
	r.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(head), r.Body), r.Body}
	return head
}

// loggableBody turns a payload into a value the log handler can walk, so
// its field masking applies to JSON and form bodies alike.
func loggableBody(contentType string, body []byte, truncated bool) any {
	if len(body) == 0 {
		return nil
	}

	var out any
	switch {
	case json.Unmarshal(body, &out) == nil:
	case strings.HasPrefix(strings.ToLower(contentType), "application/x-www-form-urlencoded"):
		values, err := url.ParseQuery(string(body))
		if err != nil {
			out = string(body)
			break
		}
		form := make(map[string]any, len(values))
		for k, v := range values {
			form[k] = strings.Join(v, ",")
		}
		out = form
	case utf8.Valid(body):
		out = string(body)
	default:
		out = "<binary body omitted>"
	}

	if truncated {
		return map[string]any{"body": out, "truncated": true}
	}
	return out
}

func loggableHeaders(h http.Header) map[string]any {
	out := make(map[string]any, len(h))
	for k, v := range h {
		out[k] = strings.Join(v, ", ")
	}
	return out
}

func middlewareObservability(ins instrument.Instrumentation) Middleware {
	tracer := ins.Tracer("http.server")
	meter := ins.Meter("http.server")

	requests, err := meter.Int64Counter("http.server.requests",
		metric.WithDescription("Number of HTTP requests served"))
	if err != nil {
		slog.Error("failed to create http request counter", "error", err)
	}
	latency, err := meter.Float64Histogram("http.server.duration",
		metric.WithDescription("HTTP request duration"), metric.WithUnit("ms"))
	if err != nil {
		slog.Error("failed to create http duration histogram", "error", err)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			route := matchedRoutePath(r)

			ctx, span := tracer.Start(r.Context(), r.Method+" "+route,
				trace.WithSpanKind(trace.SpanKindServer),
				trace.WithAttributes(
					semconv.HTTPRequestMethodKey.String(r.Method),
					semconv.HTTPRouteKey.String(route),
					semconv.ServerAddressKey.String(r.Host),
					semconv.UserAgentOriginal(r.UserAgent()),
					semconv.ClientAddress(r.RemoteAddr),
				),
			)
			defer span.End()

			reqBody := peekBody(r)
			slog.InfoContext(ctx, "request received",
				"method", r.Method,
				"path", route,
				"uri", r.RequestURI,
				"headers", loggableHeaders(r.Header),
				"body", loggableBody(r.Header.Get("Content-Type"), reqBody, len(reqBody) == maxLoggedBody),
			)

			rec := &responseRecorder{ResponseWriter: w}
			next.ServeHTTP(rec, r.WithContext(ctx))

			status := rec.statusCode()
			elapsed := time.Since(start)
			attrs := metric.WithAttributes(
				semconv.HTTPRequestMethodKey.String(r.Method),
				semconv.HTTPRouteKey.String(route),
				semconv.HTTPResponseStatusCodeKey.Int(status),
			)

			span.SetAttributes(
				semconv.HTTPResponseStatusCodeKey.Int(status),
				attribute.Int("http.response.body.size", rec.written),
			)
			if rec.err != nil {
				span.RecordError(rec.err)
			}
			switch {
			case status >= http.StatusInternalServerError && rec.err != nil:
				span.SetStatus(codes.Error, rec.err.Error())
			case status >= http.StatusInternalServerError:
				span.SetStatus(codes.Error, http.StatusText(status))
			default:
				span.SetStatus(codes.Ok, "")
			}

			if requests != nil {
				requests.Add(ctx, 1, attrs)
			}
			if latency != nil {
				latency.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
			}

			slog.InfoContext(ctx, "response sent",
				"method", r.Method,
				"path", route,
				"status", status,
				"bytes", rec.written,
				"latency_ms", elapsed.Milliseconds(),
				"body", loggableBody(rec.Header().Get("Content-Type"), rec.body.Bytes(), rec.truncated),
			)
		})
	}
}
