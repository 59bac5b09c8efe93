package handler

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/angeloszaimis/join-gateway/internal/metrics"
	"github.com/angeloszaimis/join-gateway/internal/sharecode"
)

type JoinHandler struct {
	logger           *slog.Logger
	responder        Responder
	files            http.Handler
	metricsCollector *metrics.Collector
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (jh *JoinHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	clientIP := extractClientIP(r)

	jh.logger.Info("Received request",
		slog.String("from", clientIP),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("proto", r.Proto),
		slog.String("host", r.Host),
		slog.String("user_agent", r.UserAgent()))

	var (
		code string
		join bool
	)

	// Join handling covers GET and HEAD only; everything else belongs to
	// the file server and its own method handling.
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		code, join = sharecode.FromPath(r.URL.Path)
	}

	route := metrics.RouteStatic
	if join {
		route = jh.responder.Route()
	}

	jh.metricsCollector.Emit(metrics.MetricEvent{
		Type:      metrics.EventRequestReceived,
		Timestamp: time.Now(),
		Route:     route,
	})

	wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
	start := time.Now()

	if join {
		jh.logger.Info("Handling join request",
			slog.String("client", clientIP),
			slog.String("code", code))

		jh.responder.Respond(wrapped, r, code)
	} else {
		jh.files.ServeHTTP(wrapped, r)
	}

	jh.metricsCollector.Emit(metrics.MetricEvent{
		Type:       metrics.EventResponseCompleted,
		Timestamp:  time.Now(),
		Route:      route,
		Duration:   time.Since(start),
		StatusCode: wrapped.statusCode,
	})
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	return host
}

func (r *statusRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// NewJoinHandler creates the gateway handler. Join URLs are answered by the
// responder; every other path is served from staticRoot.
func NewJoinHandler(logger *slog.Logger, staticRoot string, responder Responder, collector *metrics.Collector) *JoinHandler {
	return &JoinHandler{
		logger:           logger,
		responder:        responder,
		files:            http.FileServer(http.Dir(staticRoot)),
		metricsCollector: collector,
	}
}
