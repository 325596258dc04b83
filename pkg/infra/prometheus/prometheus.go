package prometheus

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var registry = prometheus.NewRegistry()

var registerer = prometheus.WrapRegistererWith(prometheus.Labels{"bot": "goku"}, registry)

var (
	// Oracle latency buckets in milliseconds
	latencyBuckets = []float64{
		100, 250, 500, // fast answers
		1000, 2500, 5000, // normal model latency
		10000, 25000, 60000, // slow or timing out
	}

	MessagesTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "goku_messages_total",
			Help: "Inbound messages by pipeline outcome",
		},
		[]string{"outcome", "classification"},
	)

	CommandsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "goku_commands_total",
			Help: "Commands handled by name",
		},
		[]string{"command"},
	)

	OracleLatency = promauto.With(registerer).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "goku_oracle_latency_ms",
			Help:    "Translation oracle latency in milliseconds",
			Buckets: latencyBuckets,
		},
		[]string{"result"},
	)

	OracleErrorsTotal = promauto.With(registerer).NewCounterVec(
		prometheus.CounterOpts{
			Name: "goku_oracle_errors_total",
			Help: "Translation oracle failures by kind",
		},
		[]string{"kind"},
	)

	TranslatedCharactersTotal = promauto.With(registerer).NewCounter(
		prometheus.CounterOpts{
			Name: "goku_translated_characters_total",
			Help: "Characters sent for translation",
		},
	)
)

type MetricsConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	OracleLatency bool `mapstructure:"oracle_latency"`
}

func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:       true,
		OracleLatency: true,
	}
}

var (
	current      atomic.Pointer[MetricsConfig]
	registerOnce sync.Once
)

func init() {
	cfg := DefaultMetricsConfig()
	current.Store(&cfg)
}

// Initialize sets the process metrics config. Runtime collectors are
// registered and the default registry is replaced only when metrics are
// enabled, and at most once.
func Initialize(cfg MetricsConfig) {
	current.Store(&cfg)
	if !cfg.Enabled {
		return
	}
	registerOnce.Do(func() {
		registry.MustRegister(
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewGoCollector(),
		)
		prometheus.DefaultRegisterer = registry
		prometheus.DefaultGatherer = registry
	})
}

func CurrentConfig() MetricsConfig {
	return *current.Load()
}

func Gatherer() prometheus.Gatherer {
	return registry
}

func ObserveMessage(outcome, classification string) {
	if !CurrentConfig().Enabled {
		return
	}
	MessagesTotal.WithLabelValues(outcome, classification).Inc()
}

func ObserveCommand(command string) {
	if !CurrentConfig().Enabled {
		return
	}
	CommandsTotal.WithLabelValues(command).Inc()
}

// ObserveOracle records one oracle call. errKind is empty on success.
func ObserveOracle(elapsed time.Duration, errKind string) {
	cfg := CurrentConfig()
	if !cfg.Enabled {
		return
	}
	result := "ok"
	if errKind != "" {
		result = "error"
		OracleErrorsTotal.WithLabelValues(errKind).Inc()
	}
	if cfg.OracleLatency {
		OracleLatency.WithLabelValues(result).Observe(float64(elapsed.Milliseconds()))
	}
}

func ObserveCharacters(n int) {
	if !CurrentConfig().Enabled || n <= 0 {
		return
	}
	TranslatedCharactersTotal.Add(float64(n))
}
