package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	// Timer metrics
	SessionsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vibetrack_sessions_started_total",
			Help: "Total sessions started",
		},
	)

	SessionsStopped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vibetrack_sessions_stopped_total",
			Help: "Total sessions finalized by stop",
		},
	)

	// Validation metrics
	OverlapConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "vibetrack_overlap_conflicts_total",
			Help: "Manual edits rejected because they overlap another session",
		},
	)

	// Recovery metrics
	RecoveryOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibetrack_recovery_outcomes_total",
			Help: "Recovery runs by outcome",
		},
		[]string{"outcome"},
	)

	// Storage metrics
	PersistenceFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vibetrack_persistence_failures_total",
			Help: "Writes that failed against the entity store",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(
		SessionsStarted,
		SessionsStopped,
		OverlapConflicts,
		RecoveryOutcomes,
		PersistenceFailures,
	)
}

// DisciplineSeconds is one discipline's tracked time
type DisciplineSeconds struct {
	Name    string
	Seconds int
}

// Snapshot is the point-in-time state exported as gauges
type Snapshot struct {
	Today          []DisciplineSeconds
	WeekSeconds    int
	Running        bool
	ElapsedSeconds int
}

// SnapshotFunc produces a fresh snapshot for each scrape
type SnapshotFunc func(ctx context.Context) (Snapshot, error)

// Collector exports tracked totals computed at scrape time
type Collector struct {
	snapshot SnapshotFunc
	timeout  time.Duration
	logger   zerolog.Logger

	todayDesc   *prometheus.Desc
	weekDesc    *prometheus.Desc
	runningDesc *prometheus.Desc
	elapsedDesc *prometheus.Desc
}

// NewCollector creates a collector backed by fn
func NewCollector(fn SnapshotFunc, logger zerolog.Logger) *Collector {
	return &Collector{
		snapshot: fn,
		timeout:  5 * time.Second,
		logger:   logger.With().Str("component", "metrics").Logger(),
		todayDesc: prometheus.NewDesc(
			"vibetrack_today_seconds",
			"Seconds tracked today per discipline, including the live session",
			[]string{"discipline"}, nil,
		),
		weekDesc: prometheus.NewDesc(
			"vibetrack_week_seconds",
			"Seconds tracked in finalized sessions this week",
			nil, nil,
		),
		runningDesc: prometheus.NewDesc(
			"vibetrack_timer_running",
			"1 if a session is currently running",
			nil, nil,
		),
		elapsedDesc: prometheus.NewDesc(
			"vibetrack_timer_elapsed_seconds",
			"Elapsed seconds of the live session",
			nil, nil,
		),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.todayDesc
	ch <- c.weekDesc
	ch <- c.runningDesc
	ch <- c.elapsedDesc
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()

	snap, err := c.snapshot(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to collect snapshot")
		return
	}

	for _, d := range snap.Today {
		ch <- prometheus.MustNewConstMetric(c.todayDesc, prometheus.GaugeValue, float64(d.Seconds), d.Name)
	}
	ch <- prometheus.MustNewConstMetric(c.weekDesc, prometheus.GaugeValue, float64(snap.WeekSeconds))

	running := 0.0
	if snap.Running {
		running = 1
	}
	ch <- prometheus.MustNewConstMetric(c.runningDesc, prometheus.GaugeValue, running)
	ch <- prometheus.MustNewConstMetric(c.elapsedDesc, prometheus.GaugeValue, float64(snap.ElapsedSeconds))
}

// Server is the metrics HTTP server
type Server struct {
	server *http.Server
	logger zerolog.Logger
}

// NewServer creates a metrics server serving the default registry
func NewServer(addr string, logger zerolog.Logger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger.With().Str("component", "metrics").Logger(),
	}
}

// Run serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("Starting metrics server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info().Msg("Stopping metrics server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
