package main

import (
	"context"
	"log"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func newRouter(reg *prometheus.Registry) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	dbg := r.PathPrefix("/debug/pprof").Subrouter()
	dbg.HandleFunc("/cmdline", pprof.Cmdline)
	dbg.HandleFunc("/profile", pprof.Profile)
	dbg.HandleFunc("/symbol", pprof.Symbol)
	dbg.HandleFunc("/trace", pprof.Trace)
	dbg.PathPrefix("/").HandlerFunc(pprof.Index)
	return r
}

func newServer(addr string, reg *prometheus.Registry) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           newRouter(reg),
		ReadHeaderTimeout: 5 * time.Second,
	}
}

func shutdown(srv *http.Server, logger *log.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("[WARN] metrics server shutdown: %v", err)
	}
}
