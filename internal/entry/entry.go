// Package entry carries the request-logging and server-lifecycle plumbing
// shared by the binaries in cmd/.
package entry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

type contextKey int

const loggerKey contextKey = iota

// Attach returns middleware that stores a request-scoped logger in the
// request context, pre-tagged with the method and path.
func Attach(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(res http.ResponseWriter, req *http.Request) {
			reqLogger := logger.With("method", req.Method, "path", req.URL.Path)
			ctx := context.WithValue(req.Context(), loggerKey, reqLogger)
			next.ServeHTTP(res, req.WithContext(ctx))
		})
	}
}

// Log returns the request-scoped logger installed by Attach, falling back to
// slog.Default for requests that didn't pass through the middleware (e.g. in
// handler tests).
func Log(req *http.Request) *slog.Logger {
	if logger, ok := req.Context().Value(loggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// RunServer handles incoming HTTP connections until ctx is canceled, at which
// point it shuts down gracefully, giving in-flight requests a few seconds to
// finish.
func RunServer(ctx context.Context, logger *slog.Logger, handler http.Handler, bindAddr string, port uint16) {
	addr := fmt.Sprintf("%s:%d", bindAddr, port)
	server := &http.Server{
		Addr:    addr,
		Handler: handler,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	done := make(chan error, 1)
	go func() {
		done <- server.ListenAndServe()
	}()
	logger.Info("Listening for HTTP requests", "addr", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Failed to shut down server cleanly", "error", err)
			return
		}
		logger.Info("Server stopped")
	case err := <-done:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
		}
	}
}
