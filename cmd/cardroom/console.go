package main

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/harlowe/cardroom/internal/render"
	"github.com/harlowe/cardroom/internal/table"
)

// consoleMessenger adapts a terminal to the Messenger interface so a
// session built for chat channels can run against stdin/stdout.
type consoleMessenger struct {
	playerID string
	renderer *render.Renderer
	out      io.Writer
	plain    bool
	lines    chan string
}

func newConsoleMessenger(playerID string, in io.Reader, out io.Writer, plain bool) *consoleMessenger {
	m := &consoleMessenger{
		playerID: playerID,
		renderer: render.New(),
		out:      out,
		plain:    plain,
		lines:    make(chan string),
	}
	go m.pump(in)
	return m
}

// pump feeds stdin lines to AwaitResponse. It exits when the reader
// closes, which for stdin means the process is going down anyway.
func (m *consoleMessenger) pump(in io.Reader) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		m.lines <- scanner.Text()
	}
	close(m.lines)
}

func (m *consoleMessenger) Send(out table.Outbound) {
	if out.To != "" && out.To != m.playerID {
		return
	}
	if m.plain {
		fmt.Fprintln(m.out, render.PlainMessage(out))
	} else {
		fmt.Fprintln(m.out, m.renderer.Message(out))
	}
}

func (m *consoleMessenger) AwaitResponse(pred func(table.Inbound) bool, timeout time.Duration) (table.Inbound, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case line, ok := <-m.lines:
			if !ok {
				return table.Inbound{}, table.ErrActionTimeout
			}
			in := table.Inbound{PlayerID: m.playerID, Text: line}
			if pred(in) {
				return in, nil
			}
		case <-deadline.C:
			return table.Inbound{}, table.ErrActionTimeout
		}
	}
}
