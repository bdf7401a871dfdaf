package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"hitbit/internal/arena"
	"hitbit/internal/config"
	"hitbit/internal/influx"
	"hitbit/internal/metrics"
	"hitbit/internal/shared/logger"
	"hitbit/internal/shared/types"
	"hitbit/internal/storage"
)

type client struct {
	id   uint64
	conn *websocket.Conn
	send chan []byte
}

type server struct {
	log      logger.Logger
	arena    *arena.Arena
	store    *storage.Store
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	nextID  uint64
	clients map[uint64]*client
}

func main() {
	configDir := flag.String("config", ".", "Directory holding hitbit.json and .env")
	flag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		boot := logger.New("gameserver")
		boot.Fatal().Err(err).Msg("config load failed")
	}

	log, closer, err := logger.Configure("gameserver", cfg.LoggerOptions())
	if err != nil {
		log.Warn().Err(err).Msg("graylog unavailable, logging to stdout only")
	}
	defer closer.Close()

	setup, err := cfg.Match.Setup()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid match setup")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := &server{
		log: log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[uint64]*client),
	}

	opts := []arena.Option{arena.WithLogger(log), arena.WithFrameHook(s.broadcast)}
	if rec, err := metrics.Default(); err != nil {
		log.Warn().Err(err).Msg("metrics unavailable")
	} else {
		opts = append(opts, arena.WithMetrics(rec))
	}

	store, err := storage.Open(cfg.StorageConfig(), log)
	switch {
	case errors.Is(err, storage.ErrDisabled):
	case err != nil:
		log.Error().Err(err).Msg("match store unavailable, results will not be kept")
	default:
		defer store.Close()
		s.store = store
		opts = append(opts, arena.WithSinks(store))
	}

	writer, err := influx.New(ctx, cfg.InfluxConfig(), log)
	switch {
	case errors.Is(err, influx.ErrDisabled):
	case err != nil:
		log.Error().Err(err).Msg("influx unavailable, results will not be exported")
	default:
		defer writer.Close()
		opts = append(opts, arena.WithSinks(writer))
	}

	s.arena, err = arena.New(newMatchID(), setup, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("arena init failed")
	}

	go s.runMatches(ctx, cfg.Match)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/matches", s.handleMatches)
	mux.HandleFunc("/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/ws", s.handleWS)

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().Str("addr", cfg.Server.Addr).Int("humans", cfg.Match.Humans).Int("cpus", cfg.Match.CPUs).
		Msg("hitbit game server listening")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}

// runMatches plays matches back to back until ctx is cancelled.
func (s *server) runMatches(ctx context.Context, mc config.MatchConfig) {
	for {
		res, err := s.arena.Run(ctx, mc.Tick())
		if err != nil {
			s.log.Info().Err(err).Str("match", res.MatchID).Msg("match abandoned")
			return
		}
		s.log.Info().Str("match", res.MatchID).Str("outcome", res.Outcome).
			Str("winner", res.WinnerName).Uint64("frames", res.Frames).Msg("match finished")

		select {
		case <-ctx.Done():
			return
		case <-time.After(mc.RestartDelay):
		}

		setup, err := mc.Setup()
		if err != nil {
			s.log.Error().Err(err).Msg("match setup rejected")
			return
		}
		if err := s.arena.Reset(newMatchID(), setup); err != nil {
			s.log.Error().Err(err).Msg("match reset failed")
			return
		}
	}
}

func newMatchID() string {
	return fmt.Sprintf("local_%d", time.Now().UTC().UnixNano())
}

func (s *server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "ok", "match": s.arena.MatchID()})
}

func (s *server) handleMatches(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "match store disabled", http.StatusNotFound)
		return
	}
	recs, err := s.store.Recent(r.Context(), 20)
	if err != nil {
		s.log.Error().Err(err).Msg("recent matches query failed")
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, recs)
}

func (s *server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		http.Error(w, "match store disabled", http.StatusNotFound)
		return
	}
	wins, err := s.store.Wins(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("leaderboard query failed")
		http.Error(w, "query failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, wins)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (s *server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("websocket upgrade error")
		return
	}

	c := &client{conn: conn, send: make(chan []byte, 64)}
	s.register(c)

	s.log.Info().Uint64("client", c.id).Str("remote", r.RemoteAddr).Msg("client connected")
	state := s.arena.Snapshot()
	s.enqueue(c, types.ServerEnvelope{
		Type:     "welcome",
		Frame:    state.Frame,
		State:    &state,
		ServerMS: time.Now().UTC().UnixMilli(),
		Message:  "connected",
	})

	go s.writePump(c)
	s.readPump(c)
}

func (s *server) readPump(c *client) {
	defer func() {
		s.unregister(c.id)
		_ = c.conn.Close()
	}()

	_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Info().Uint64("client", c.id).Msg("client disconnected")
				return
			}
			s.log.Warn().Err(err).Uint64("client", c.id).Msg("read error")
			return
		}

		var in types.ClientEnvelope
		if err := json.Unmarshal(msg, &in); err != nil {
			s.sendError(c, "bad_payload")
			continue
		}

		switch in.Type {
		case "input":
			if in.Input == nil {
				s.sendError(c, "missing_input")
				continue
			}
			if err := s.arena.ApplyInput(in.Slot, *in.Input); err != nil {
				s.sendError(c, err.Error())
			}
		case "ping":
			s.enqueue(c, types.ServerEnvelope{Type: "pong", ServerMS: time.Now().UTC().UnixMilli()})
		default:
			s.sendError(c, "unsupported_message_type")
		}
	}
}

func (s *server) writePump(c *client) {
	ticker := time.NewTicker(20 * time.Second)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				return
			}
		}
	}
}

func (s *server) register(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	c.id = s.nextID
	s.clients[c.id] = c
}

func (s *server) unregister(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.clients[id]; ok {
		close(c.send)
		delete(s.clients, id)
	}
}

func (s *server) sendError(c *client, message string) {
	s.enqueue(c, types.ServerEnvelope{Type: "error", Message: message})
}

// enqueue drops the message when the client is too slow to keep up.
func (s *server) enqueue(c *client, env types.ServerEnvelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		s.log.Error().Err(err).Str("type", env.Type).Msg("marshal envelope failed")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.clients[c.id]; !ok {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// broadcast is the arena frame hook: every frame goes to every client.
func (s *server) broadcast(state types.MatchSnapshot) {
	payload, err := json.Marshal(types.ServerEnvelope{
		Type:     "state",
		Frame:    state.Frame,
		State:    &state,
		ServerMS: time.Now().UTC().UnixMilli(),
	})
	if err != nil {
		s.log.Error().Err(err).Msg("marshal state failed")
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}
