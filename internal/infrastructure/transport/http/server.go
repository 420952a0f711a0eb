// Package http assembles the LDP HTTP transport: a kratos http.Server with
// the Resource Controller mounted under the configured context path and a
// health check alongside it, matching the teacher's cmd/server wiring
// pattern (a single *khttp.Server handed to kratos.Server(...)).
package http

import (
	"net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	khttp "github.com/go-kratos/kratos/v2/transport/http"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/akeemphilbert/goro/internal/conf"
	"github.com/akeemphilbert/goro/internal/infrastructure/transport/http/handlers"
	"github.com/akeemphilbert/goro/internal/infrastructure/transport/http/middleware"
)

// NewHTTPServer builds the kratos HTTP server: CORS as a transport-wide
// filter (so it sees every request, including the ones HandlePrefix routes
// straight to the LDP handler, bypassing kratos's own khttp.Context
// dispatch), the LDP handler mounted at cfg.ContextPath, and a health check
// at /health using the teacher's khttp.Context-based handler directly.
func NewHTTPServer(c *conf.HTTP, ldpCfg *conf.LDP, logger log.Logger, ldpHandler *handlers.LDPHandler, healthHandler *handlers.HealthHandler) *khttp.Server {
	var opts []khttp.ServerOption
	if c.Network != "" {
		opts = append(opts, khttp.Network(c.Network))
	}
	if c.Addr != "" {
		opts = append(opts, khttp.Address(c.Addr))
	}
	if c.Timeout > 0 {
		opts = append(opts, khttp.Timeout(c.Timeout))
	}
	opts = append(opts, khttp.Filter(middleware.CORS()))
	opts = append(opts, khttp.Middleware(middleware.StructuredLogging(logger), middleware.Timeout(c.Timeout)))

	srv := khttp.NewServer(opts...)

	srv.Route("/health").GET("/", healthHandler.Check)

	contextPath := ldpCfg.ContextPath
	if contextPath == "" {
		contextPath = "/r"
	}
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	wrapped := withRequestLogging(logger, http.TimeoutHandler(ldpHandler, timeout, "request timed out"))
	srv.HandlePrefix(contextPath+"/", NewResourceRouter(contextPath, wrapped))

	return srv
}

// NewResourceRouter wraps h in a gorilla/mux router with a single wildcard
// route capturing the resource-local path as the handlers.ResourcePathVar
// var. mux percent-decodes that captured segment itself, which is what
// lets handlers.LDPHandler read a clean path instead of re-implementing
// URL-escaping rules by hand. Exported so the end-to-end test harness can
// drive the LDP handler through the same routing this server uses.
func NewResourceRouter(contextPath string, h http.Handler) http.Handler {
	r := mux.NewRouter()
	r.Handle(contextPath+"/{"+handlers.ResourcePathVar+":.*}", h)
	return r
}

// withRequestLogging wraps h with the correlation-id/timing log line the
// teacher's StructuredLogging middleware produces, adapted to wrap a plain
// http.Handler directly: the LDP handler is mounted via HandlePrefix, not
// through kratos's own khttp.Context dispatch, so the kratos-style
// middleware.Middleware chain never sees it.
func withRequestLogging(logger log.Logger, h http.Handler) http.Handler {
	helper := log.NewHelper(logger)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		correlationID := middleware.GetCorrelationID(r.Context())
		if correlationID == "" {
			correlationID = newCorrelationID()
			r = r.WithContext(middleware.WithCorrelationID(r.Context(), correlationID))
		}

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		h.ServeHTTP(rec, r)
		duration := time.Since(start)

		level := log.LevelInfo
		switch {
		case rec.status >= 500:
			level = log.LevelError
		case rec.status >= 400:
			level = log.LevelWarn
		}
		helper.Log(level, "msg", "http request",
			"correlation_id", correlationID,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", duration.String(),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func newCorrelationID() string { return uuid.New().String() }
