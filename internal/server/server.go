package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"
	"golang.org/x/time/rate"

	"github.com/osse101/statsgate/internal/database"
	"github.com/osse101/statsgate/internal/handler"
	"github.com/osse101/statsgate/internal/logger"
	"github.com/osse101/statsgate/internal/metrics"
)

// Config carries the listener and inbound limits.
type Config struct {
	Port           int
	TrustedProxies []string
	InboundRPS     float64
	InboundBurst   int
}

type Server struct {
	httpServer *http.Server
}

// NewServer creates a new Server instance
func NewServer(cfg Config, dbPool database.Pool, hw2Handler *handler.HW2Handler, aoe4Handler *handler.Aoe4Handler) *Server {
	limiter := NewIPRateLimiter(rate.Limit(cfg.InboundRPS), cfg.InboundBurst)

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg.TrustedProxies, limiter, dbPool, hw2Handler, aoe4Handler),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the full route tree. Middleware runs in the order it is
// registered, outermost first.
func NewRouter(trustedProxies []string, limiter *IPRateLimiter, dbPool database.Pool, hw2Handler *handler.HW2Handler, aoe4Handler *handler.Aoe4Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(SecurityHeadersMiddleware())
	r.Use(loggingMiddleware)
	r.Use(RateLimitMiddleware(limiter, trustedProxies))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))
	r.Get("/version", handler.HandleVersion())
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/hw2", func(r chi.Router) {
			r.Get("/stats", hw2Handler.HandleStats)
			r.Post("/matches", hw2Handler.HandleMatches)
			r.Get("/match", hw2Handler.HandleMatch)
			r.Get("/events", hw2Handler.HandleEvents)
			r.Get("/metadata", hw2Handler.HandleMetadata)
		})

		r.Route("/aoe4", func(r chi.Router) {
			r.Get("/search", aoe4Handler.HandleSearch)
			r.Get("/player", aoe4Handler.HandlePlayer)
			r.Get("/games", aoe4Handler.HandleGames)
			r.Get("/leaderboard", aoe4Handler.HandleLeaderboard)
			r.Get("/meta", aoe4Handler.HandleMeta)
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isQuietPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		requestID := logger.GenerateRequestID()
		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)
		w.Header().Set(HeaderRequestID, requestID)

		log := logger.FromContext(ctx)
		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
