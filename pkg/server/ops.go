package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewOpsHandler serves pprof under /debug, metrics from gatherer under /metrics
// and a liveness probe under /healthz. It must never be exposed publicly.
func NewOpsHandler(gatherer prometheus.Gatherer) http.Handler {
	mux := chi.NewRouter()
	mux.Mount("/debug", middleware.Profiler())
	mux.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}
