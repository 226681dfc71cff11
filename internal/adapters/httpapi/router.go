// Package httpapi exposes the org chart, memo and coverage operations over
// HTTP using chi.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"hrcore/internal/service"
)

// maxMemoBody bounds PUT /v1/memos payloads.
const maxMemoBody = 4 << 20

// Router wires handlers to a service.
type Router struct {
	svc     *service.Service
	metrics http.Handler
	logger  *zap.Logger
}

// NewRouter creates a router. metricsHandler may be nil, in which case
// /metrics is not mounted.
func NewRouter(svc *service.Service, metricsHandler http.Handler, logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{svc: svc, metrics: metricsHandler, logger: logger}
}

// Handler builds the http.Handler with middleware and routes.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogger(rt.logger))

	r.Get("/healthz", rt.health)
	if rt.metrics != nil {
		r.Method(http.MethodGet, "/metrics", rt.metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Get("/orgchart", rt.orgChart)
		r.Get("/coverage", rt.coverage)
		r.Get("/memos/{kind}/{subject}", rt.getMemo)
		r.Put("/memos/{kind}/{subject}", rt.putMemo)
		r.Post("/generate/{kind}/{employeeID}", rt.generate)
	})
	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", chimiddleware.GetReqID(r.Context())),
			)
		})
	}
}
