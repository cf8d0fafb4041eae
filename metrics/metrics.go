package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cayo_http_requests_total",
		Help: "HTTP requests by route and status",
	}, []string{"method", "route", "status"})

	HTTPDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cayo_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	Logins = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cayo_logins_total",
		Help: "login attempts by result",
	}, []string{"result"})

	Transactions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cayo_transactions_total",
		Help: "recorded deposits and withdrawals",
	}, []string{"type", "status"})

	Bets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cayo_bets_total",
		Help: "bets placed (outcome=open) and settled",
	}, []string{"outcome"})

	IntegrityViolations = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cayo_integrity_violations",
		Help: "records failing the last integrity check",
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, HTTPDuration, Logins, Transactions, Bets, IntegrityViolations)
}

type HealthFunc func(ctx context.Context) error

// Handler serves /metrics and /healthz.
func Handler(healthFn HealthFunc) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()

		if err := healthFn(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(fmt.Sprintf("unhealthy: %v", err)))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// StartServer runs Handler on addr in its own goroutine. Shut it down
// through the returned server.
func StartServer(addr string, healthFn HealthFunc, onErr func(error)) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           Handler(healthFn),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed && onErr != nil {
			onErr(err)
		}
	}()
	return srv
}
