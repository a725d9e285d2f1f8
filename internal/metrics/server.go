package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Iron-Ham/knockout/internal/errors"
	"github.com/Iron-Ham/knockout/internal/logging"
)

const shutdownTimeout = 5 * time.Second

// Handler serves /metrics from the recorder's registry and a /healthz probe.
func Handler(r *Recorder) http.Handler {
	router := chi.NewRouter()
	router.Get("/healthz", healthz)
	router.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(r.Registry(), promhttp.HandlerOpts{}))
	return router
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

// Server exposes a recorder over HTTP.
type Server struct {
	srv    *http.Server
	ln     net.Listener
	logger *logging.Logger
}

// Listen binds addr. Use ":0" to pick a free port.
func Listen(addr string, r *Recorder, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, errors.Wrapf(err, "listening on %s", addr)
	}
	return &Server{
		srv: &http.Server{
			Handler:           Handler(r),
			ReadHeaderTimeout: 5 * time.Second,
		},
		ln:     ln,
		logger: logger,
	}, nil
}

// Addr returns the bound address.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Serve handles requests until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("metrics server listening", "addr", s.Addr())
		errCh <- s.srv.Serve(s.ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return errors.Wrap(err, "shutting down metrics server")
	}
	<-errCh
	return nil
}
