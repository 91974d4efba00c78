package table

import (
	"strings"
	"time"

	"github.com/coder/quartz"
	"github.com/harlowe/cardroom/internal/deck"
)

// Inbound is a text reply from a participant
type Inbound struct {
	PlayerID string
	Text     string
}

// Outbound is a message the engine wants displayed. Cards, when present,
// are rendered by the transport as a composite in the given order; the
// engine does not depend on how (or whether) that rendering happens.
type Outbound struct {
	To    string // player ID for a private message, empty for the channel
	Title string
	Text  string
	Cards []deck.Card
}

// Messenger is the engine's display-and-input collaborator. Send is
// fire-and-forget; AwaitResponse is the engine's sole suspension point.
type Messenger interface {
	Send(out Outbound)

	// AwaitResponse blocks until an inbound message satisfying the
	// predicate arrives or the timeout elapses, in which case it returns
	// ErrActionTimeout. Non-matching messages are discarded.
	AwaitResponse(pred func(Inbound) bool, timeout time.Duration) (Inbound, error)
}

// FromPlayer builds the predicate used for a turn: only input from the
// expected player counts as a reply.
func FromPlayer(playerID string) func(Inbound) bool {
	return func(in Inbound) bool {
		return in.PlayerID == playerID
	}
}

// FromPlayerCommand matches input from the player whose first word,
// stripped of a leading "!", equals one of the given commands.
func FromPlayerCommand(playerID string, commands ...string) func(Inbound) bool {
	return func(in Inbound) bool {
		if in.PlayerID != playerID {
			return false
		}
		fields := strings.Fields(strings.ToLower(in.Text))
		if len(fields) == 0 {
			return false
		}
		word := strings.TrimPrefix(fields[0], "!")
		for _, cmd := range commands {
			if word == cmd {
				return true
			}
		}
		return false
	}
}

// Mailbox adapts a delivery channel and a send function into a Messenger.
// The transports (gateway, console) push inbound chat into Deliver; the
// engine suspends in AwaitResponse with a quartz timer so timeout
// behaviour is testable with a mock clock.
type Mailbox struct {
	clock   quartz.Clock
	send    func(Outbound)
	inbound chan Inbound
}

// NewMailbox creates a mailbox backed by the given clock and send func
func NewMailbox(clock quartz.Clock, send func(Outbound)) *Mailbox {
	return &Mailbox{
		clock:   clock,
		send:    send,
		inbound: make(chan Inbound, 16),
	}
}

// Deliver hands an inbound message to a pending AwaitResponse. It never
// blocks; if the buffer is full the message is dropped, matching the
// fire-and-forget chat semantics.
func (m *Mailbox) Deliver(in Inbound) {
	select {
	case m.inbound <- in:
	default:
	}
}

// Send implements Messenger
func (m *Mailbox) Send(out Outbound) {
	m.send(out)
}

// AwaitResponse implements Messenger
func (m *Mailbox) AwaitResponse(pred func(Inbound) bool, timeout time.Duration) (Inbound, error) {
	timer := m.clock.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case in := <-m.inbound:
			if pred(in) {
				return in, nil
			}
		case <-timer.C:
			return Inbound{}, ErrActionTimeout
		}
	}
}
