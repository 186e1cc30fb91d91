package telemetry

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// Config is read from the standard OTEL_* variables. The exporters read the
// rest (headers, protocol options) themselves.
type Config struct {
	Endpoint       string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SamplerArg     string        `env:"OTEL_TRACES_SAMPLER_ARG"`
	MetricInterval time.Duration `env:"OTEL_METRIC_EXPORT_INTERVAL_DURATION" envDefault:"30s"`
	BatchTimeout   time.Duration `env:"OTEL_BSP_SCHEDULE_DELAY_DURATION" envDefault:"5s"`
}

// Enabled reports whether an OTLP collector is configured.
func (c Config) Enabled() bool { return c.Endpoint != "" }

// SamplingRatio parses SamplerArg. Anything missing or outside [0,1] samples
// every trace.
func (c Config) SamplingRatio() float64 {
	if c.SamplerArg == "" {
		return 1
	}
	ratio, err := strconv.ParseFloat(c.SamplerArg, 64)
	if err != nil || ratio < 0 || ratio > 1 {
		log.Warn().Str("value", c.SamplerArg).Msg("invalid OTEL_TRACES_SAMPLER_ARG, sampling everything")
		return 1
	}
	return ratio
}

// ShutdownFunc flushes and stops the exporters.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// InitTelemetry installs the global trace and meter providers for
// serviceName. Without a collector endpoint the no-op globals stay in place,
// so a plain CLI run pays nothing.
func InitTelemetry(ctx context.Context, serviceName, version string) (ShutdownFunc, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse telemetry config: %w", err)
	}
	if !cfg.Enabled() {
		log.Debug().Msg("no OTLP endpoint, telemetry disabled")
		return noopShutdown, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(semconv.ServiceName(serviceName), semconv.ServiceVersion(version)),
		resource.WithFromEnv(),
		resource.WithProcess(),
		resource.WithHost(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build telemetry resource: %w", err)
	}

	var shutdowns []ShutdownFunc

	if tp, err := tracerProvider(ctx, cfg, res); err != nil {
		log.Warn().Err(err).Msg("tracing unavailable")
	} else {
		otel.SetTracerProvider(tp)
		shutdowns = append(shutdowns, tp.Shutdown)
	}

	if mp, err := meterProvider(ctx, cfg, res); err != nil {
		log.Warn().Err(err).Msg("metrics unavailable")
	} else {
		otel.SetMeterProvider(mp)
		shutdowns = append(shutdowns, mp.Shutdown)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	log.Info().
		Str("service", serviceName).
		Str("version", version).
		Str("endpoint", cfg.Endpoint).
		Float64("sampling", cfg.SamplingRatio()).
		Msg("telemetry enabled")

	return func(ctx context.Context) error {
		var errs []error
		for _, fn := range shutdowns {
			errs = append(errs, fn(ctx))
		}
		return errors.Join(errs...)
	}, nil
}

func tracerProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdktrace.TracerProvider, error) {
	exp, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp, sdktrace.WithBatchTimeout(cfg.BatchTimeout)),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SamplingRatio()))),
	), nil
}

func meterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	exp, err := otlpmetricgrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("metric exporter: %w", err)
	}
	return sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exp, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	), nil
}
