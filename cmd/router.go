package main

import (
	"net/http"

	"github.com/angeloszaimis/join-gateway/internal/handler"
	"github.com/angeloszaimis/join-gateway/internal/metrics"
)

func setupRouter(joinHandler *handler.JoinHandler, metricsCollector *metrics.Collector, mode string) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", joinHandler.ServeHTTP)
	mux.HandleFunc("/metrics", metricsCollector.Handler(mode))

	return mux
}
