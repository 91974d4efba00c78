package gateway

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/harlowe/cardroom/internal/table"
)

// connection is one WebSocket client. It stays anonymous until a join
// envelope names its player and channel.
type connection struct {
	ws      *websocket.Conn
	gateway *Gateway
	logger  *log.Logger
	send    chan Envelope

	mu      sync.RWMutex
	player  string
	name    string
	channel string
}

func newConnection(ws *websocket.Conn, gw *Gateway, logger *log.Logger) *connection {
	return &connection{
		ws:      ws,
		gateway: gw,
		logger:  logger.WithPrefix("conn"),
		send:    make(chan Envelope, 256),
	}
}

func (c *connection) playerID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.player
}

func (c *connection) channelID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.channel
}

// enqueue hands an envelope to the write pump without blocking; a full
// buffer drops the message rather than stalling the engine.
func (c *connection) enqueue(env Envelope) {
	select {
	case c.send <- env:
	default:
		c.logger.Warn("Send buffer full, dropping message", "player", c.playerID())
	}
}

// run pumps the connection in both directions until either side fails
func (c *connection) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.readPump(ctx) })
	g.Go(func() error { return c.writePump(ctx) })
	g.Go(func() error {
		// Closing the socket unblocks a read pump stuck in ReadJSON.
		<-ctx.Done()
		return c.ws.Close()
	})

	if err := g.Wait(); err != nil {
		c.logger.Debug("Connection closed", "error", err)
	}
}

func (c *connection) readPump(ctx context.Context) error {
	for {
		var env Envelope
		if err := c.ws.ReadJSON(&env); err != nil {
			return err
		}

		switch env.Type {
		case "join":
			name := env.Name
			if name == "" {
				name = env.Player
			}
			c.mu.Lock()
			c.player = env.Player
			c.name = name
			c.channel = env.Channel
			c.mu.Unlock()
			c.logger.Info("Player joined channel", "player", env.Player, "channel", env.Channel)

		case "chat":
			c.mu.RLock()
			from := table.PlayerRef{ID: c.player, Name: c.name}
			channel := c.channel
			c.mu.RUnlock()
			if from.ID == "" || channel == "" {
				continue
			}
			c.gateway.deliver(channel, from, table.Inbound{PlayerID: from.ID, Text: env.Text})
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}
}

func (c *connection) writePump(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case env := <-c.send:
			if err := c.ws.WriteJSON(env); err != nil {
				return err
			}
		}
	}
}
