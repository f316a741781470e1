package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler returns the /metrics handler.
func Handler() http.Handler { return promhttp.Handler() }

// Server is the optional debug listener.
type Server struct {
	srv *http.Server
}

// Serve starts the metrics listener on addr. It returns immediately;
// listen errors surface through the returned server's Close.
func Serve(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler())
	s := &Server{srv: &http.Server{Addr: addr, Handler: mux}}
	go func() {
		_ = s.srv.ListenAndServe()
	}()
	return s
}

// Close shuts the listener down.
func (s *Server) Close() error {
	if s == nil || s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
