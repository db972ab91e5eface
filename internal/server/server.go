package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/team-task-api/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout bounds the graceful shutdown once Start stops serving.
const ShutdownTimeout = 30 * time.Second

// Server runs the API listener and the metrics listener.
type Server struct {
	HTTPServer  *http.Server
	StatsServer *metrics.StatsServer

	logger *log.Logger
}

// New returns a Server serving engine on port and metrics on metricsAddr.
// An empty metricsAddr disables the metrics listener.
func New(logger *log.Logger, port, metricsAddr string, engine *gin.Engine) *Server {
	s := &Server{
		HTTPServer: &http.Server{
			Addr:              net.JoinHostPort("", port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger.WithPrefix("server"),
	}
	if metricsAddr != "" {
		s.StatsServer = metrics.NewStatsServer(metricsAddr)
	}
	return s
}

// Start binds both listeners and serves until ctx is done or one of them
// fails, then shuts everything down. Bind errors are returned before anything
// is served.
func (s *Server) Start(ctx context.Context) error {
	httpLn, err := net.Listen("tcp", s.HTTPServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.HTTPServer.Addr, err)
	}
	var statsLn net.Listener
	if s.StatsServer != nil {
		statsLn, err = net.Listen("tcp", s.StatsServer.Addr())
		if err != nil {
			httpLn.Close()
			return fmt.Errorf("failed to listen on %s: %w", s.StatsServer.Addr(), err)
		}
	}

	errg, gctx := errgroup.WithContext(ctx)

	errg.Go(func() error {
		s.logger.Info("Starting HTTP server", "addr", httpLn.Addr().String())
		return ignoreClosed(s.HTTPServer.Serve(httpLn))
	})

	if statsLn != nil {
		errg.Go(func() error {
			s.logger.Info("Starting Stats server", "addr", statsLn.Addr().String())
			return ignoreClosed(s.StatsServer.Serve(statsLn))
		})
	}

	// gctx is also canceled when Wait returns, so this always runs.
	shutdown := make(chan error, 1)
	go func() {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		shutdown <- s.Shutdown(shutdownCtx)
	}()

	err = errg.Wait()
	if shutdownErr := <-shutdown; err == nil && shutdownErr != nil {
		err = fmt.Errorf("failed to shut down: %w", shutdownErr)
	}
	return err
}

func ignoreClosed(err error) error {
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown lets the server gracefully shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	errg, ctx := errgroup.WithContext(ctx)
	errg.Go(func() error {
		return s.HTTPServer.Shutdown(ctx)
	})
	if s.StatsServer != nil {
		errg.Go(func() error {
			return s.StatsServer.Shutdown(ctx)
		})
	}
	return errg.Wait()
}
