// Package gateway exposes the engine over WebSockets. Each connection
// joins one channel; chat lines from the channel feed the engine's
// AwaitResponse predicates and engine output is broadcast back to every
// connection on the channel.
package gateway

import (
	"context"
	"net/http"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/harlowe/cardroom/internal/table"
)

// Envelope is the wire format in both directions
type Envelope struct {
	Type    string   `json:"type"` // "join", "chat", "message"
	Channel string   `json:"channel,omitempty"`
	Player  string   `json:"player,omitempty"`
	Name    string   `json:"name,omitempty"`
	To      string   `json:"to,omitempty"`
	Title   string   `json:"title,omitempty"`
	Text    string   `json:"text,omitempty"`
	Cards   []string `json:"cards,omitempty"`
}

// Gateway is the WebSocket hub: it owns the connections and one mailbox
// per channel.
type Gateway struct {
	upgrader websocket.Upgrader
	clock    quartz.Clock
	logger   *log.Logger

	// OnChat, when set, observes every inbound chat line after it is
	// delivered to the channel mailbox. The command dispatcher and the
	// economy's activity awards hang off this.
	OnChat func(channel string, from table.PlayerRef, in table.Inbound)

	mu          sync.RWMutex
	connections map[*connection]bool
	mailboxes   map[string]*table.Mailbox
}

// New creates a gateway
func New(clock quartz.Clock, logger *log.Logger) *Gateway {
	return &Gateway{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clock:       clock,
		logger:      logger.WithPrefix("gateway"),
		connections: make(map[*connection]bool),
		mailboxes:   make(map[string]*table.Mailbox),
	}
}

// Handler returns the HTTP handler serving the WebSocket endpoint
func (g *Gateway) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", g.handleWebSocket)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// Messenger returns the channel-scoped messenger the engine sessions
// are constructed with, creating it on first use.
func (g *Gateway) Messenger(channel string) *table.Mailbox {
	g.mu.Lock()
	defer g.mu.Unlock()

	mb, ok := g.mailboxes[channel]
	if !ok {
		mb = table.NewMailbox(g.clock, func(out table.Outbound) {
			g.broadcast(channel, out)
		})
		g.mailboxes[channel] = mb
	}
	return mb
}

// broadcast fans an engine message out to the channel. A message with a
// To recipient only reaches that player's connections.
func (g *Gateway) broadcast(channel string, out table.Outbound) {
	env := Envelope{
		Type:    "message",
		Channel: channel,
		To:      out.To,
		Title:   out.Title,
		Text:    out.Text,
	}
	for _, c := range out.Cards {
		env.Cards = append(env.Cards, c.Code())
	}

	g.mu.RLock()
	defer g.mu.RUnlock()
	for conn := range g.connections {
		if conn.channelID() != channel {
			continue
		}
		if out.To != "" && conn.playerID() != out.To {
			continue
		}
		conn.enqueue(env)
	}
}

// handleWebSocket upgrades the request and runs the connection until it
// drops.
func (g *Gateway) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := newConnection(ws, g, g.logger)
	g.register(conn)
	defer g.unregister(conn)

	conn.run(r.Context())
}

func (g *Gateway) register(c *connection) {
	g.mu.Lock()
	g.connections[c] = true
	total := len(g.connections)
	g.mu.Unlock()
	g.logger.Info("Client connected", "total", total)
}

func (g *Gateway) unregister(c *connection) {
	g.mu.Lock()
	delete(g.connections, c)
	total := len(g.connections)
	g.mu.Unlock()
	g.logger.Info("Client disconnected", "total", total)
}

// deliver routes an inbound chat line to its channel mailbox
func (g *Gateway) deliver(channel string, from table.PlayerRef, in table.Inbound) {
	g.mu.RLock()
	mb := g.mailboxes[channel]
	g.mu.RUnlock()

	if mb != nil {
		mb.Deliver(in)
	}
	if g.OnChat != nil {
		g.OnChat(channel, from, in)
	}
}

// Serve runs the gateway on addr until the context is cancelled
func (g *Gateway) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: g.Handler()}

	go func() {
		<-ctx.Done()
		_ = srv.Shutdown(context.Background())
	}()

	g.logger.Info("Serving WebSocket gateway", "addr", addr)
	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
