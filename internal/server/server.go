package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bytedance/sonic"

	"github.com/penwyp/go-talkshow/internal/core/model"
	"github.com/penwyp/go-talkshow/internal/util"
)

// DefaultAddr is where the data source listens unless told otherwise
const DefaultAddr = "127.0.0.1:8000"

// DataStore is the read side the API is served from
type DataStore interface {
	Sessions() []model.Session
	Content(id string) (*model.SessionContent, bool)
	Stats() model.Stats
	Timeline() []model.TimelineEntry
}

// Server serves the TalkShow data-source API
type Server struct {
	listener  net.Listener
	server    *http.Server
	errCh     chan error
	closeOnce sync.Once
}

// NewHandler routes the four API endpoints to store
func NewHandler(store DataStore) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sessions", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Sessions())
	})
	mux.HandleFunc("GET /api/sessions/{id}", func(w http.ResponseWriter, r *http.Request) {
		content, ok := store.Content(r.PathValue("id"))
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Session not found"})
			return
		}
		writeJSON(w, http.StatusOK, content)
	})
	mux.HandleFunc("GET /api/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Stats())
	})
	mux.HandleFunc("GET /api/timeline", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, store.Timeline())
	})
	return logRequests(mux)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	data, err := sonic.Marshal(v)
	if err != nil {
		util.LogErrorf("Failed to encode response: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		util.LogDebug("request served",
			util.F("method", r.Method),
			util.F("path", r.URL.Path),
			util.F("status", rec.status),
			util.F("duration", time.Since(start).String()))
	})
}

// Start listens on addr and serves store in the background
func Start(addr string, store DataStore) (*Server, error) {
	if addr == "" {
		addr = DefaultAddr
	}

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	s := &Server{
		listener: listener,
		server: &http.Server{
			Handler:           NewHandler(store),
			ReadHeaderTimeout: 10 * time.Second,
		},
		errCh: make(chan error, 1),
	}

	go func() {
		if serveErr := s.server.Serve(listener); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			s.errCh <- serveErr
		}
		close(s.errCh)
	}()

	util.LogInfof("Data source listening on %s", s.URL())
	return s, nil
}

// URL returns the base URL clients should use
func (s *Server) URL() string {
	return "http://" + s.listener.Addr().String()
}

// Err delivers a serve failure, or closes once the server stops cleanly
func (s *Server) Err() <-chan error {
	return s.errCh
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.closeOnce.Do(func() {
		err = s.server.Shutdown(ctx)
	})
	return err
}
