package instrument

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const maskedValue = "***"

// sensitiveKeys are masked regardless of configuration: passcodes and bearer
// credentials must never reach log storage.
var sensitiveKeys = []string{"otp", "code", "access_token", "authorization"}

type logOptions struct {
	serviceName string
	level       slog.Level
	maskFields  []string
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func initLogging(opt logOptions, lp *sdklog.LoggerProvider) {
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       opt.level,
		AddSource:   true,
		ReplaceAttr: renameAttr,
	})

	if lp != nil {
		handler = &fanoutHandler{handlers: []slog.Handler{
			handler,
			otelslog.NewHandler(opt.serviceName, otelslog.WithLoggerProvider(lp)),
		}}
	}

	slog.SetDefault(slog.New(newContextHandler(handler, opt.serviceName, opt.maskFields)))
}

func newContextHandler(next slog.Handler, serviceName string, maskFields []string) *contextHandler {
	return &contextHandler{
		Handler:     &maskHandler{handler: next, maskKeys: buildMaskKeys(maskFields)},
		serviceName: serviceName,
	}
}

func renameAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		a.Key = "severity"
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok {
			return a
		}
		_, rel, found := strings.Cut(src.File, "/internal/")
		if !found {
			return slog.Attr{}
		}
		return slog.String("file", fmt.Sprintf("%s:%d", filepath.Join("internal", rel), src.Line))
	}
	return a
}

// contextHandler stamps every record with the service name and the request
// correlation ID.
type contextHandler struct {
	slog.Handler
	serviceName string
}

func (h *contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if cID := GetCorrelationID(ctx); cID != "" {
		r.AddAttrs(slog.String("_cID", cID))
	}
	r.AddAttrs(slog.String("service", h.serviceName))

	return h.Handler.Handle(ctx, r)
}

func (h *contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithAttrs(attrs), serviceName: h.serviceName}
}

func (h *contextHandler) WithGroup(name string) slog.Handler {
	return &contextHandler{Handler: h.Handler.WithGroup(name), serviceName: h.serviceName}
}

// fanoutHandler writes each record to stdout and to the OTLP bridge.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (f *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *fanoutHandler) Handle(ctx context.Context, record slog.Record) error {
	var firstErr error
	for _, h := range f.handlers {
		if !h.Enabled(ctx, record.Level) {
			continue
		}
		if err := h.Handle(ctx, record.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *fanoutHandler) WithGroup(name string) slog.Handler {
	return f.each(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *fanoutHandler) each(fn func(slog.Handler) slog.Handler) slog.Handler {
	out := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		out[i] = fn(h)
	}
	return &fanoutHandler{handlers: out}
}

// maskHandler hides sensitive values and partially redacts email addresses,
// including inside JSON payloads logged as strings or bytes.
type maskHandler struct {
	handler  slog.Handler
	maskKeys map[string]struct{}
}

func (h *maskHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

func (h *maskHandler) Handle(ctx context.Context, record slog.Record) error {
	masked := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		masked.AddAttrs(h.maskAttr(attr))
		return true
	})

	return h.handler.Handle(ctx, masked)
}

func (h *maskHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	masked := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		masked[i] = h.maskAttr(a)
	}
	return &maskHandler{handler: h.handler.WithAttrs(masked), maskKeys: h.maskKeys}
}

func (h *maskHandler) WithGroup(name string) slog.Handler {
	return &maskHandler{handler: h.handler.WithGroup(name), maskKeys: h.maskKeys}
}

func buildMaskKeys(fields []string) map[string]struct{} {
	keys := make(map[string]struct{}, len(fields)+len(sensitiveKeys))
	for _, field := range append(fields, sensitiveKeys...) {
		if field = strings.TrimSpace(strings.ToLower(field)); field != "" {
			keys[field] = struct{}{}
		}
	}
	return keys
}

func (h *maskHandler) hidden(key string) bool {
	_, ok := h.maskKeys[strings.ToLower(key)]
	return ok
}

func (h *maskHandler) maskAttr(attr slog.Attr) slog.Attr {
	if h.hidden(attr.Key) {
		return slog.String(attr.Key, maskedValue)
	}

	switch attr.Value.Kind() {
	case slog.KindGroup:
		group := attr.Value.Group()
		masked := make([]slog.Attr, len(group))
		for i, ga := range group {
			masked[i] = h.maskAttr(ga)
		}
		attr.Value = slog.GroupValue(masked...)
	case slog.KindString:
		s := attr.Value.String()
		if strings.EqualFold(attr.Key, "email") {
			attr.Value = slog.StringValue(redactEmail(s))
		} else if out, ok := h.maskJSON([]byte(s)); ok {
			attr.Value = slog.StringValue(out)
		}
	case slog.KindAny:
		switch v := attr.Value.Any().(type) {
		case map[string]any, []any:
			attr.Value = slog.AnyValue(h.maskData(v))
		case map[string]string:
			converted := make(map[string]any, len(v))
			for k, s := range v {
				converted[k] = s
			}
			attr.Value = slog.AnyValue(h.maskData(converted))
		case []byte:
			if out, ok := h.maskJSON(v); ok {
				attr.Value = slog.StringValue(out)
			}
		}
	}

	return attr
}

func (h *maskHandler) maskJSON(payload []byte) (string, bool) {
	if len(payload) == 0 || (payload[0] != '{' && payload[0] != '[') {
		return "", false
	}

	var body any
	if err := json.Unmarshal(payload, &body); err != nil {
		return "", false
	}

	out, err := json.Marshal(h.maskData(body))
	if err != nil {
		return "", false
	}
	return string(out), true
}

func (h *maskHandler) maskData(v any) any {
	switch val := v.(type) {
	case map[string]any:
		masked := make(map[string]any, len(val))
		for k, item := range val {
			switch {
			case h.hidden(k):
				masked[k] = maskedValue
			case strings.EqualFold(k, "email"):
				if s, ok := item.(string); ok {
					masked[k] = redactEmail(s)
					continue
				}
				masked[k] = item
			default:
				masked[k] = h.maskData(item)
			}
		}
		return masked
	case []any:
		res := make([]any, len(val))
		for i, item := range val {
			res[i] = h.maskData(item)
		}
		return res
	default:
		return v
	}
}

// redactEmail keeps the first character of the local part and the domain:
// "ana@example.com" becomes "a***@example.com".
func redactEmail(s string) string {
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" {
		return s
	}
	return local[:1] + maskedValue + "@" + domain
}
