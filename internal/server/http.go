package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewHTTPMux registers the dashboard routes. webhook may be nil when the
// Telegram front-end is disabled.
func NewHTTPMux(h *Handlers, webhook http.HandlerFunc) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Page)
	mux.HandleFunc("GET /chart.png", h.Chart)
	mux.HandleFunc("GET /api/simulate", h.SimulateJSON)
	mux.HandleFunc("GET /api/usage.png", h.UsageChart)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(200) })
	if webhook != nil {
		mux.HandleFunc("/telegram/webhook", webhook)
	}
	return mux
}

func ListenAndServe(addr string, mux *http.ServeMux) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}
