// Package metrics holds the Prometheus collectors and the stats listener.
package metrics

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "team_tasks",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "The total number of HTTP requests",
	}, []string{"method", "route", "status"})

	activityCounter = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "team_tasks",
		Subsystem: "activity",
		Name:      "entries_total",
		Help:      "The total number of activity log entries written",
	}, []string{"kind"})
)

// ObserveRequest counts one served request.
func ObserveRequest(method, route string, status int) {
	if route == "" {
		route = "unmatched"
	}
	httpRequestsCounter.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// ObserveActivity counts one activity log entry of the given kind.
func ObserveActivity(kind string) {
	activityCounter.WithLabelValues(kind).Inc()
}

// StatsServer serves /metrics on its own listener.
type StatsServer struct {
	server *http.Server
}

// NewStatsServer returns a new StatsServer.
func NewStatsServer(addr string) *StatsServer {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &StatsServer{
		server: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: time.Second * 10,
			ReadTimeout:       time.Second * 10,
			WriteTimeout:      time.Second * 10,
		},
	}
}

// Addr returns the listen address.
func (s *StatsServer) Addr() string {
	return s.server.Addr
}

// Handler exposes the mux for tests.
func (s *StatsServer) Handler() http.Handler {
	return s.server.Handler
}

// Serve serves metrics on l until the StatsServer is shut down.
func (s *StatsServer) Serve(l net.Listener) error {
	return s.server.Serve(l)
}

// Shutdown gracefully shuts down the StatsServer.
func (s *StatsServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
