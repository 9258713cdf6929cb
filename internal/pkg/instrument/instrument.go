package instrument

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// Instrumentation hands out tracers and meters to the layers that need them.
type Instrumentation interface {
	Tracer(name string) trace.Tracer
	Meter(name string) metric.Meter
	Shutdown(ctx context.Context) error
}

type Config struct {
	Enabled        bool
	ServiceName    string
	ServiceVersion string
	Environment    string

	OTLPEndpoint string
	OTLPSecure   bool
	// TraceSampleRatio is clamped to [0, 1].
	TraceSampleRatio float64
	MetricsInterval  time.Duration

	// MaskFields lists extra log field names to mask. Passcodes and bearer
	// credentials are always masked.
	MaskFields []string
	// LogLevel is one of debug, info, warn or error. Defaults to info.
	LogLevel string
}

func (c *Config) logOptions() logOptions {
	return logOptions{
		serviceName: c.ServiceName,
		level:       parseLevel(c.LogLevel),
		maskFields:  c.MaskFields,
	}
}

type otelInstrumentation struct {
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
	lp *sdklog.LoggerProvider
}

// New installs JSON logging with field masking and, when cfg.Enabled, OTLP
// trace, metric and log pipelines registered as the global providers. When
// disabled the returned Instrumentation is a noop.
func New(ctx context.Context, cfg *Config) (Instrumentation, error) {
	if cfg == nil {
		return NewNoop(), nil
	}
	if !cfg.Enabled {
		initLogging(cfg.logOptions(), nil)
		return NewNoop(), nil
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(cfg.ServiceName),
		semconv.ServiceVersion(cfg.ServiceVersion),
		semconv.DeploymentEnvironment(cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("instrument: resource: %w", err)
	}

	o := &otelInstrumentation{}
	if err := o.start(ctx, cfg, res); err != nil {
		//nolint:errcheck // the start error is the one worth reporting
		o.Shutdown(context.WithoutCancel(ctx))
		return nil, err
	}

	otel.SetTracerProvider(o.tp)
	otel.SetMeterProvider(o.mp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{},
	))
	initLogging(cfg.logOptions(), o.lp)

	return o, nil
}

// start builds the providers one at a time so a failure leaves only the
// already-started ones for Shutdown to release.
func (o *otelInstrumentation) start(ctx context.Context, cfg *Config, res *resource.Resource) error {
	traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint)}
	metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
	logOpts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(cfg.OTLPEndpoint)}
	if !cfg.OTLPSecure {
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
		logOpts = append(logOpts, otlploggrpc.WithInsecure())
	}

	traceExp, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return fmt.Errorf("instrument: trace exporter: %w", err)
	}
	o.tp = sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(min(max(cfg.TraceSampleRatio, 0), 1)))),
		sdktrace.WithBatcher(traceExp),
	)

	metricExp, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		return fmt.Errorf("instrument: metric exporter: %w", err)
	}
	o.mp = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExp, sdkmetric.WithInterval(cfg.MetricsInterval))),
	)

	logExp, err := otlploggrpc.New(ctx, logOpts...)
	if err != nil {
		return fmt.Errorf("instrument: log exporter: %w", err)
	}
	o.lp = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(logExp)),
	)

	return nil
}

func (o *otelInstrumentation) Tracer(name string) trace.Tracer { return o.tp.Tracer(name) }

func (o *otelInstrumentation) Meter(name string) metric.Meter { return o.mp.Meter(name) }

// Shutdown flushes pending telemetry. Providers that never started are skipped.
func (o *otelInstrumentation) Shutdown(ctx context.Context) error {
	var errs []error
	if o.tp != nil {
		errs = append(errs, o.tp.Shutdown(ctx))
	}
	if o.mp != nil {
		errs = append(errs, o.mp.Shutdown(ctx))
	}
	if o.lp != nil {
		errs = append(errs, o.lp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

// NewNoop discards all telemetry. Used when instrumentation is disabled and
// in tests.
func NewNoop() Instrumentation { return noopInstrumentation{} }

type noopInstrumentation struct{}

func (noopInstrumentation) Tracer(name string) trace.Tracer {
	return tracenoop.NewTracerProvider().Tracer(name)
}

func (noopInstrumentation) Meter(name string) metric.Meter {
	return metricnoop.NewMeterProvider().Meter(name)
}

func (noopInstrumentation) Shutdown(context.Context) error { return nil }
