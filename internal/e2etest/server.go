package e2etest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/myrjola/liftplan/internal/logging"
)

// Server is an in-process instance of the API started by [StartServer].
type Server struct {
	url      string
	client   *Client
	cancel   context.CancelCauseFunc
	done     chan struct{}
	shutdown sync.Once
}

// LogAddrKey is the key used to log the address the server is listening on.
const LogAddrKey = "addr"

// RunFunc starts the server and blocks until ctx is cancelled. It has the signature of the main package's run.
type RunFunc func(ctx context.Context, logger *slog.Logger, lookupEnv func(string) (string, bool)) error

// StartServer runs the server in the background and returns once it answers its health check.
//
// The server must log the address it listens on under LogAddrKey; configure it to listen on port 0 to get a free
// port. Logs go to logSink, usually a testhelpers.NewWriter. The server is shut down when the test finishes.
func StartServer(
	tb testing.TB,
	logSink io.Writer,
	lookupEnv func(string) (string, bool),
	run RunFunc,
) (*Server, error) {
	ctx, cancel := context.WithCancelCause(tb.Context())
	server := &Server{
		url:      "",
		client:   nil,
		cancel:   cancel,
		done:     make(chan struct{}),
		shutdown: sync.Once{},
	}
	tb.Cleanup(server.Shutdown)

	addrCh := make(chan string, 1)
	logger := slog.New(logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource: false,
		Level:     slog.LevelDebug,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == LogAddrKey {
				select {
				case addrCh <- a.Value.String():
				default:
				}
			}
			return a
		},
	})))

	go func() {
		defer close(server.done)
		if err := run(ctx, logger, lookupEnv); err != nil {
			cancel(err)
		}
	}()

	var addr string
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("server stopped before listening: %w", context.Cause(ctx))
	case addr = <-addrCh:
	}

	server.url = "http://" + addr
	server.client = NewClient(server.url)
	if err := server.client.WaitForReady(ctx, "/api/healthy"); err != nil {
		return nil, fmt.Errorf("wait for ready: %w", err)
	}
	return server, nil
}

// Client returns an API client pointed at the server.
func (s *Server) Client() *Client {
	return s.client
}

func (s *Server) URL() string {
	return s.url
}

// Shutdown stops the server and waits for run to return. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdown.Do(func() {
		s.cancel(nil)
		<-s.done
	})
}
