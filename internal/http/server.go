package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/handiism/capture-studio/internal/blob"
)

// Server serves blobs from a Store.
type Server struct {
	store *blob.Store
	log   *slog.Logger

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// NewServer creates a server for store.
func NewServer(store *blob.Store, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{store: store, log: log}
}

// Handler returns the HTTP handler serving the store.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /blob/{id}", s.serveBlob)
	return mux
}

// Start listens on addr and serves in the background. It returns the
// base URL to pass to blob.Store.SetBaseURL.
func (s *Server) Start(addr string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return "", errors.New("http: server already started")
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.listener = ln
	s.srv = srv
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("resource server stopped", "error", err)
		}
	}()

	base := "http://" + ln.Addr().String()
	s.log.Info("serving resources", "url", base)
	return base, nil
}

// Shutdown stops the server. It is a no-op if the server never started.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.srv = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) serveBlob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	b, err := s.store.Get(id)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", b.MIMEType)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.Data)))
	w.Header().Set("Cache-Control", "no-store")
	if r.URL.Query().Get("download") != "" {
		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": b.FileName})
		w.Header().Set("Content-Disposition", disposition)
	}

	if _, err := w.Write(b.Data); err != nil {
		s.log.Debug("writing blob", "id", id, "error", err)
	}
}
