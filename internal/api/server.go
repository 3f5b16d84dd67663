// Package api serves the world clock board over HTTP and streams it to
// WebSocket clients on every tick.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/agent-platform/worldclock/internal/display"
	"github.com/agent-platform/worldclock/internal/holiday"
	"github.com/agent-platform/worldclock/internal/worldclock"
)

// Backend is the application state the API reads.
type Backend interface {
	Clocks() worldclock.List
	Board(now time.Time, override *time.Time) display.Board
	Summary(now time.Time) string
	Convert(text string, now time.Time) (display.Board, bool)
	HolidayStatus(code string) holiday.Entry
}

// Ticks provides the live instant and its stream.
type Ticks interface {
	Now() time.Time
	Subscribe() <-chan time.Time
	Unsubscribe(<-chan time.Time)
}

// Server owns the router and the WebSocket hub.
type Server struct {
	backend Backend
	ticks   Ticks
	hub     *Hub
	router  *mux.Router
}

// NewServer builds the routes.
func NewServer(b Backend, ticks Ticks) *Server {
	s := &Server{
		backend: b,
		ticks:   ticks,
		hub:     NewHub(),
	}

	r := mux.NewRouter()
	r.Use(logging)
	r.Use(recovery)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.health).Methods(http.MethodGet)
	api.HandleFunc("/clocks", s.clocks).Methods(http.MethodGet)
	api.HandleFunc("/board", s.board).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.summary).Methods(http.MethodGet)
	api.HandleFunc("/convert", s.convert).Methods(http.MethodGet)
	api.HandleFunc("/holidays/{code}", s.holidays).Methods(http.MethodGet)
	api.HandleFunc("/ws", s.stream).Methods(http.MethodGet)

	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Hub returns the WebSocket hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Run starts the hub and pushes a board frame on every tick until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) {
	go s.hub.Run(ctx)

	sub := s.ticks.Subscribe()
	defer s.ticks.Unsubscribe(sub)

	for {
		select {
		case <-ctx.Done():
			return
		case now, ok := <-sub:
			if !ok {
				return
			}
			if s.hub.ClientCount() == 0 {
				continue
			}
			frame, err := json.Marshal(s.backend.Board(now, nil))
			if err != nil {
				log.Warn().Str("component", "api").Err(err).Msg("encode board")
				continue
			}
			s.hub.Broadcast(frame)
		}
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go s.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("component", "api").Str("addr", addr).Msg("api server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen on %s: %w", addr, err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown api server: %w", err)
		}
		return nil
	}
}

type healthResponse struct {
	Status  string    `json:"status"`
	Now     time.Time `json:"now"`
	Clients int       `json:"clients"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Now:     s.ticks.Now(),
		Clients: s.hub.ClientCount(),
	})
}

func (s *Server) clocks(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Clocks())
}

func (s *Server) board(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.backend.Board(s.ticks.Now(), nil))
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, summaryResponse{Summary: s.backend.Summary(s.ticks.Now())})
}

func (s *Server) convert(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("t")
	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "missing query parameter t")
		return
	}
	b, ok := s.backend.Convert(text, s.ticks.Now())
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, "invalid_time", fmt.Sprintf("cannot read %q as a time", text))
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (s *Server) holidays(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(mux.Vars(r)["code"])
	if len(code) != 2 {
		writeError(w, http.StatusBadRequest, "bad_request", "country code must have two letters")
		return
	}
	writeJSON(w, http.StatusOK, s.backend.HolidayStatus(code))
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func (s *Server) stream(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Str("component", "api").Err(err).Msg("websocket upgrade failed")
		return
	}

	client := newClient()
	if frame, err := json.Marshal(s.backend.Board(s.ticks.Now(), nil)); err == nil {
		client.send <- frame
	}
	s.hub.Register(client)

	go writePump(conn, client)
	go readPump(conn, client, s.hub)
}

func writePump(conn *websocket.Conn, client *Client) {
	ping := time.NewTicker(30 * time.Second)
	defer func() {
		ping.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client messages and unregisters on disconnect.
func readPump(conn *websocket.Conn, client *Client, hub *Hub) {
	defer func() {
		hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Debug().Str("component", "api").Err(err).Msg("websocket read")
			}
			return
		}
	}
}
