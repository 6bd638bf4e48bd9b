package common

import (
	"net/http"
	"os"

	"github.com/gorilla/handlers"
	_ "github.com/mkevac/debugcharts"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var log = NewLog("common")

// NewMetricServer serves /metrics, and /debug/charts when debugChart is set.
func NewMetricServer(port string, debugChart bool) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	if debugChart {
		// debugcharts registers itself on the default mux
		mux.Handle("/debug/", http.DefaultServeMux)
	}

	srv := &http.Server{
		Addr:    port,
		Handler: handlers.LoggingHandler(os.Stdout, handlers.RecoveryHandler()(mux)),
	}
	log.Info("Starting metric server", "listen", port)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metric server stopped", "err", err)
		}
	}()
	return srv
}
