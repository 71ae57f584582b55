package datadog

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/artie-labs/dedupe/lib/stringutil"
	"github.com/artie-labs/dedupe/lib/telemetry/metrics/base"
)

const (
	defaultSampleRate = 1.0
	defaultNamespace  = "dedupe."
	// Agent listening on the same host.
	defaultAddr = "127.0.0.1:8125"
)

type statsClient struct {
	client *statsd.Client
	rate   float64
}

// NewDatadogClient builds a statsd client from `telemetry.metrics.settings`.
// TELEMETRY_HOST and TELEMETRY_PORT win over the configured address when both are set.
func NewDatadogClient(settings map[string]any) (base.Client, error) {
	cfg, err := parseSettings(settings)
	if err != nil {
		return nil, err
	}

	if host, port := os.Getenv("TELEMETRY_HOST"), os.Getenv("TELEMETRY_PORT"); !stringutil.Empty(host, port) {
		cfg.Addr = fmt.Sprintf("%s:%s", host, port)
		slog.Info("Overriding telemetry address with env vars", slog.String("address", cfg.Addr))
	}

	client, err := statsd.New(cfg.Addr, statsd.WithNamespace(cfg.Namespace), statsd.WithTags(cfg.Tags))
	if err != nil {
		return nil, fmt.Errorf("failed to create statsd client: %w", err)
	}

	return &statsClient{client: client, rate: cfg.Sampling}, nil
}

func (s *statsClient) Timing(name string, value time.Duration, tags map[string]string) {
	_ = s.client.Timing(name, value, toDatadogTags(tags), s.rate)
}

func (s *statsClient) Incr(name string, tags map[string]string) {
	_ = s.client.Incr(name, toDatadogTags(tags), s.rate)
}

func (s *statsClient) Count(name string, value int64, tags map[string]string) {
	_ = s.client.Count(name, value, toDatadogTags(tags), s.rate)
}

func (s *statsClient) Gauge(name string, value float64, tags map[string]string) {
	_ = s.client.Gauge(name, value, toDatadogTags(tags), s.rate)
}
