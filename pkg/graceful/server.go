package graceful

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Server wraps http.Server so a deploy or SIGTERM drains in-flight form
// submits instead of dropping them mid-upsert.
type Server struct {
	httpServer      *http.Server
	log             *slog.Logger
	shutdownTimeout time.Duration
}

// NewServer constructs a graceful server wrapper.
func NewServer(log *slog.Logger, srv *http.Server, shutdownTimeout time.Duration) *Server {
	if log == nil {
		log = slog.Default()
	}

	return &Server{
		httpServer:      srv,
		log:             log,
		shutdownTimeout: shutdownTimeout,
	}
}

// ListenAndServe serves until ctx is cancelled, then shuts the listener
// down with the configured timeout. Returns the shutdown error if any,
// otherwise whatever ended the serve loop.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 1)
	var once sync.Once

	go func() {
		if s.log != nil {
			s.log.Info("http server listening", slog.String("addr", s.httpServer.Addr))
		}

		err := s.httpServer.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			if s.log != nil {
				s.log.Error("http server error", slog.Any("error", err))
			}
		}

		once.Do(func() { errCh <- err })
	}()

	<-ctx.Done()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancelShutdown()

	if s.log != nil {
		s.log.Info("shutting down http server", slog.Duration("timeout", s.shutdownTimeout))
	}

	shutdownErr := s.httpServer.Shutdown(shutdownCtx)
	if shutdownErr != nil && s.log != nil {
		s.log.Error("http server shutdown error", slog.Any("error", shutdownErr))
	}

	var listenErr error
	select {
	case listenErr = <-errCh:
	default:
	}

	if shutdownErr != nil {
		return shutdownErr
	}

	return listenErr
}
