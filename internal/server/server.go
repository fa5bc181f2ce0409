// Package server exposes a running timer engine over HTTP so that CLI
// commands can control the TUI or the headless daemon, and streams engine
// events over a websocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/xolan/pomidor/internal/engine"
	"github.com/xolan/pomidor/internal/storage"
)

// ErrAlreadyRunning indicates another pomidor process holds the control address.
var ErrAlreadyRunning = errors.New("pomidor is already running")

const shutdownTimeout = 5 * time.Second

// Controller is the part of the engine the server drives.
type Controller interface {
	Start(minutes int, label string) error
	Stop() error
	Toggle() error
	ToggleDisplay() error
	Status() engine.Status
	History() []storage.DayGroup
	Subscribe(buffer int) <-chan engine.Event
}

// Server serves the control API for one engine.
type Server struct {
	ctrl     Controller
	hub      *Hub
	logger   *slog.Logger
	listener net.Listener
	httpSrv  *http.Server
}

// New creates a server for ctrl. Call Listen, then Serve.
func New(ctrl Controller, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		ctrl:   ctrl,
		hub:    NewHub(logger),
		logger: logger,
	}
	s.httpSrv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the chi router with every route mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(Recovery(s.logger))

	r.Get("/health", s.health)
	r.Route("/timer", func(r chi.Router) {
		r.Get("/", s.status)
		r.Post("/start", s.start)
		r.Post("/stop", s.command(s.ctrl.Stop))
		r.Post("/toggle", s.command(s.ctrl.Toggle))
		r.Post("/display", s.command(s.ctrl.ToggleDisplay))
	})
	r.Get("/history", s.history)
	r.Get("/ws", s.websocket)
	return r
}

// Bind claims addr for this process. A bind failure means another instance
// already owns the address and is reported as ErrAlreadyRunning. Bind before
// opening the engine so a second process never recovers the same timer.
func Bind(addr string) (net.Listener, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w (listen %s: %v)", ErrAlreadyRunning, addr, err)
	}
	return ln, nil
}

// Listen binds addr for Serve.
func (s *Server) Listen(addr string) error {
	ln, err := Bind(addr)
	if err != nil {
		return err
	}
	s.listener = ln
	return nil
}

// SetListener makes Serve use a listener obtained from Bind.
func (s *Server) SetListener(ln net.Listener) {
	s.listener = ln
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Serve handles requests and broadcasts engine events until ctx is done.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening")
	}

	events := s.ctrl.Subscribe(256)
	go s.pump(ctx, events)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("control server listening", "addr", s.Addr())
		errCh <- s.httpSrv.Serve(s.listener)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.hub.Close()
		if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown control server: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) pump(ctx context.Context, events <-chan engine.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			s.hub.Broadcast(NewEventMessage(ev))
		}
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Status())
}

func (s *Server) start(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	s.respond(w, s.ctrl.Start(req.Minutes, req.Label))
}

func (s *Server) command(fn func() error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respond(w, fn())
	}
}

// respond maps a command result to a response. Usage errors never touch
// state; any other error means the command took effect but persisting it
// failed, so the status is still returned with a warning.
func (s *Server) respond(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, CommandResponse{Status: s.ctrl.Status()})
	case engine.IsUsage(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, engine.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Warn("command persisted with errors", "error", err)
		writeJSON(w, http.StatusOK, CommandResponse{Status: s.ctrl.Status(), Warning: err.Error()})
	}
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, storage.LimitDays(s.ctrl.History(), limit))
}

func (s *Server) websocket(w http.ResponseWriter, r *http.Request) {
	st := s.ctrl.Status()
	s.hub.Serve(w, r, EventMessage{
		Type:           engine.EventTick,
		State:          st.State,
		Remaining:      st.RemainingSeconds,
		Label:          st.Label,
		DisplayEnabled: st.DisplayEnabled,
		At:             time.Now(),
	})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
