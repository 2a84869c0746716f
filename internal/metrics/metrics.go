// Package metrics exposes prometheus counters for catalog refreshes, the change feed and backend requests.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/desertthunder/moviex/internal/feed"
	"github.com/desertthunder/moviex/internal/server"
	"github.com/desertthunder/moviex/internal/shared"
)

const namespace = "moviex"

var (
	refreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_total",
			Help:      "Catalog refreshes by outcome (applied, stale, error).",
		},
		[]string{"outcome"},
	)

	refreshDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Time from issuing a catalog fetch to its completion.",
			Buckets:   prometheus.DefBuckets,
		},
	)

	feedEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_events_total",
			Help:      "Server-sent events received on the change feed.",
		},
		[]string{"event"},
	)

	feedReconnects = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "feed_reconnects_total",
			Help:      "Change feed reconnect attempts.",
		},
	)

	feedConnected = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "feed_connected",
			Help:      "1 while the change feed stream is open.",
		},
	)

	backendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "backend_requests_total",
			Help:      "Requests sent to the catalog backend.",
		},
		[]string{"code", "method"},
	)

	backendInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "backend_requests_in_flight",
			Help:      "Backend requests awaiting a response.",
		},
	)
)

// Recorder implements the catalog store and change feed observer hooks.
type Recorder struct{}

// RefreshDone records one completed fetch.
func (Recorder) RefreshDone(outcome string, elapsed time.Duration) {
	refreshTotal.WithLabelValues(outcome).Inc()
	refreshDuration.Observe(elapsed.Seconds())
}

func (Recorder) EventReceived(name string) {
	feedEvents.WithLabelValues(name).Inc()
}

func (Recorder) StateChanged(s feed.State) {
	if s == feed.Connected {
		feedConnected.Set(1)
		return
	}
	feedConnected.Set(0)
}

func (Recorder) Reconnecting() {
	feedReconnects.Inc()
}

var _ feed.Observer = Recorder{}

// InstrumentTransport counts backend requests made through rt. A nil rt means [http.DefaultTransport].
func InstrumentTransport(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		rt = http.DefaultTransport
	}
	return promhttp.InstrumentRoundTripperInFlight(backendInFlight,
		promhttp.InstrumentRoundTripperCounter(backendRequests, rt))
}

// Handler serves /metrics and /healthz.
func Handler(logger *log.Logger) http.Handler {
	router := server.NewBasicRouter()
	router.Use(server.Recover(logger), server.Logging(logger))
	router.Handle(http.MethodGet, "/metrics", promhttp.Handler())
	router.Handler(server.HealthHandler{})
	return router
}

// Serve exposes [Handler] on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, logger *log.Logger) error {
	if logger == nil {
		logger = shared.DiscardLogger()
	}
	srv := &http.Server{Addr: addr, Handler: Handler(logger), ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
