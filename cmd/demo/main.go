// Command demo serves a single game over websockets. Clients connect,
// pass priority, and watch the turn structure and replacement effects
// play out in the broadcast snapshots.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Chiplis/maigus-sub007/internal/config"
	"github.com/Chiplis/maigus-sub007/internal/game"
	"github.com/Chiplis/maigus-sub007/internal/game/grants"
	"github.com/Chiplis/maigus-sub007/internal/game/rules"
)

var configPath = flag.String("config", "", "path to configuration file")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type wsMessage struct {
	Type     string          `json:"type"`
	PlayerID string          `json:"player_id,omitempty"`
	Data     json.RawMessage `json:"data,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

type hub struct {
	mu      sync.RWMutex
	clients map[*client]bool
	engine  *game.Engine
	logger  *zap.Logger
}

func newHub(engine *game.Engine, logger *zap.Logger) *hub {
	return &hub{
		clients: make(map[*client]bool),
		engine:  engine,
		logger:  logger,
	}
}

func (h *hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	h.sendSnapshot(c)
}

func (h *hub) unregister(c *client) {
	h.mu.Lock()
	if h.clients[c] {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (h *hub) sendSnapshot(c *client) {
	payload, err := h.snapshotMessage()
	if err != nil {
		h.logger.Error("snapshot failed", zap.Error(err))
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (h *hub) broadcast() {
	payload, err := h.snapshotMessage()
	if err != nil {
		h.logger.Error("snapshot failed", zap.Error(err))
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

func (h *hub) snapshotMessage() ([]byte, error) {
	snap, err := h.engine.MarshalSnapshot()
	if err != nil {
		return nil, err
	}
	return json.Marshal(map[string]json.RawMessage{
		"type": json.RawMessage(`"game_state"`),
		"data": snap,
	})
}

func (h *hub) handleMessage(c *client, msg wsMessage) {
	switch msg.Type {
	case "get_state":
		h.sendSnapshot(c)

	case "pass_priority":
		if msg.PlayerID != "" && !rules.HasPriority(h.engine.State(), msg.PlayerID) {
			h.sendError(c, fmt.Sprintf("%s does not hold priority", msg.PlayerID))
			return
		}
		result, err := h.engine.PassPriority()
		if err != nil {
			h.sendError(c, err.Error())
			return
		}
		h.logger.Info("priority passed",
			zap.String("player", msg.PlayerID),
			zap.String("result", result.String()))
		h.broadcast()

	case "cast_escape":
		var data struct {
			Card       string `json:"card"`
			ExileCount int    `json:"exile_count"`
		}
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			h.sendError(c, "malformed cast_escape payload")
			return
		}
		err := h.engine.CastFromGrant(msg.PlayerID, data.Card,
			grants.CastMethod{Kind: grants.CastEscape, ExileCount: data.ExileCount})
		if err != nil {
			h.sendError(c, err.Error())
			return
		}
		h.broadcast()

	case "event_log":
		payload, err := json.Marshal(map[string]any{
			"type": "event_log",
			"data": h.engine.Log().Entries(),
		})
		if err != nil {
			h.sendError(c, err.Error())
			return
		}
		select {
		case c.send <- payload:
		default:
		}

	default:
		h.sendError(c, "unknown message type "+msg.Type)
	}
}

func (h *hub) sendError(c *client, detail string) {
	payload, _ := json.Marshal(map[string]string{
		"type":  "error",
		"error": detail,
	})
	select {
	case c.send <- payload:
	default:
	}
}

func (c *client) readPump(h *hub) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
	}()
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			h.logger.Warn("malformed message", zap.Error(err))
			continue
		}
		h.handleMessage(c, msg)
	}
}

func (c *client) writePump() {
	defer c.conn.Close()
	for payload := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func serveWS(h *hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.Error(err))
		return
	}
	c := &client{conn: conn, send: make(chan []byte, 64)}
	h.register(c)
	go c.writePump()
	go c.readPump(h)
}

// seedDemoGame sets up a small board that shows the machinery: tapped
// and untapped permanents, an enters-tapped land, a graveyard grant
// source, and a few cards to draw.
func seedDemoGame(engine *game.Engine, players []string) {
	state := engine.State()
	if len(players) < 2 {
		return
	}
	p1, p2 := players[0], players[1]

	for i := 0; i < 10; i++ {
		state.AddCard(p1, rules.ZoneLibrary, game.CardSpec{
			Name:      fmt.Sprintf("Island %d", i+1),
			CardTypes: []rules.CardType{rules.CardTypeLand},
			Subtypes:  []string{"Island"},
		})
		state.AddCard(p2, rules.ZoneLibrary, game.CardSpec{
			Name:      fmt.Sprintf("Mountain %d", i+1),
			CardTypes: []rules.CardType{rules.CardTypeLand},
			Subtypes:  []string{"Mountain"},
		})
	}

	state.AddCard(p1, rules.ZoneBattlefield, game.CardSpec{
		Name:      "Grizzly Bears",
		ManaCost:  "{1}{G}",
		CardTypes: []rules.CardType{rules.CardTypeCreature},
		Subtypes:  []string{"Bear"},
	})
	state.AddCard(p1, rules.ZoneBattlefield, game.CardSpec{
		Name:      "Sunken Citadel",
		CardTypes: []rules.CardType{rules.CardTypeLand},
		Abilities: []rules.StaticAbility{game.NewEntersTappedAbility()},
	})
	state.AddCard(p2, rules.ZoneBattlefield, game.CardSpec{
		Name:      "Underworld Breach",
		ManaCost:  "{1}{R}",
		CardTypes: []rules.CardType{rules.CardTypeEnchantment},
		Abilities: []rules.StaticAbility{game.NewEscapeGrantAbility(3)},
	})
	state.AddCard(p2, rules.ZoneGraveyard, game.CardSpec{
		Name:      "Reanimated Wurm",
		ManaCost:  "{3}{G}",
		CardTypes: []rules.CardType{rules.CardTypeCreature},
		Subtypes:  []string{"Wurm"},
	})

	engine.Refresh()
	engine.ResetPriority()
}

func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
	}
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	engine := game.NewEngine(cfg.Game.Players,
		game.WithLogger(logger),
		game.WithStartingLife(cfg.Game.StartingLife),
		game.WithMaxHandSize(cfg.Game.MaxHandSize))
	seedDemoGame(engine, cfg.Game.Players)

	h := newHub(engine, logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveWS(h, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: mux}

	go func() {
		logger.Info("demo server listening", zap.String("addr", cfg.Server.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}
