// Package httpapi exposes the resume service over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.trai.ch/catalyst/internal/core/domain"
	"go.trai.ch/catalyst/internal/core/ports"
	"go.trai.ch/zerr"
)

// ReadHeaderTimeout bounds how long a client may take to send request headers.
const ReadHeaderTimeout = 60 * time.Second

// Server serves the /api/v1 routes.
type Server struct {
	cfg     domain.ServerConfig
	svc     ports.ResumeService
	logger  ports.Logger
	handler http.Handler
}

// NewServer builds the router for svc.
func NewServer(cfg domain.ServerConfig, svc ports.ResumeService, logger ports.Logger) *Server {
	s := &Server{cfg: cfg, svc: svc, logger: logger}
	s.handler = otelhttp.NewHandler(s.routes(), "catalyst",
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return r.Method + " " + r.URL.Path
		}),
	)
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware(s.cfg.AllowedOrigins))
	r.Use(limitBody(s.cfg.MaxBodyBytes))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/generate", s.handleGenerate)
		r.Post("/preview", s.handlePreview)
		r.Post("/tailor", s.handleTailor)
		r.Post("/evaluate-resume", s.handleEvaluate)
		r.Post("/generate-cover-letter", s.handleCoverLetter)
		r.Post("/interview/generate", s.handleInterview)
		r.Get("/download/{sessionId}/{fileName}", s.handleDownload)
	})
	return r
}

// Handler returns the instrumented router.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe listens on the configured address and serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Listen)
	if err != nil {
		return zerr.With(zerr.Wrap(domain.ErrServeFailed, "listen"), "reason", err.Error())
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx ends, then shuts down gracefully.
// In-flight requests get up to the configured shutdown timeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return context.WithoutCancel(ctx)
		},
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("listening on " + ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return zerr.With(zerr.Wrap(domain.ErrServeFailed, "serve"), "reason", err.Error())
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return zerr.With(zerr.Wrap(domain.ErrServeFailed, "shutdown"), "reason", err.Error())
	}
	return nil
}
