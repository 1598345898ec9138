package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	RunDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ranking_run_duration_seconds",
		Help:    "Длительность построения и публикации склейки",
		Buckets: []float64{.5, 1, 2.5, 5, 10, 15, 20, 30, 45, 60, 90, 120, 180, 300},
	}, []string{"status"})

	RunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ranking_runs_total",
		Help: "Количество прогонов по статусу",
	}, []string{"status"})

	EntitiesRendered = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ranking_entities_rendered_total",
		Help: "Количество картинок, вставленных в склейку",
	})

	PublishErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "publish_errors_total",
		Help: "Ошибки публикации по площадкам",
	}, []string{"target"})

	JobsEnqueued = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "publish_jobs_enqueued_total",
		Help: "Поставленные в очередь задачи публикации",
	}, []string{"cause"})

	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 15, 20, 30, 60},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		RunDuration,
		RunsTotal,
		EntitiesRendered,
		PublishErrors,
		JobsEnqueued,
		NetworkRequestDuration,
		NetworkRequestTotal,
	)
}

// StartServer запускает HTTP сервер с эндпоинтом /metrics.
func StartServer(ctx context.Context, logger zerolog.Logger, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}

	shutdownCtx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-ctx.Done():
		case <-shutdownCtx.Done():
		}
		shutdownTimeout, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer timeoutCancel()
		if err := srv.Shutdown(shutdownTimeout); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: graceful shutdown failed")
		}
	}()

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics: server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics: server stopped")
		}
		cancel()
	}()
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveRun записывает итог прогона.
func ObserveRun(start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	RunDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	RunsTotal.WithLabelValues(status).Inc()
}

// IncEntitiesRendered увеличивает счётчик вставленных картинок.
func IncEntitiesRendered() {
	EntitiesRendered.Inc()
}

// IncPublishError увеличивает счётчик ошибок публикации.
func IncPublishError(target string) {
	PublishErrors.WithLabelValues(target).Inc()
}

// IncJobEnqueued увеличивает счётчик задач в очереди.
func IncJobEnqueued(cause string) {
	JobsEnqueued.WithLabelValues(cause).Inc()
}
