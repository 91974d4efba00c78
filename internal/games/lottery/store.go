package lottery

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/harlowe/cardroom/internal/fileutil"
)

// load reads the state file, starting a fresh pool when it is missing.
// Absent fields in a hand-edited file fall back the same way.
func (l *Lottery) load() error {
	l.state = freshState(l.deps.Config.InitialPot)
	if l.path == "" {
		return nil
	}

	data, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading lottery state: %w", err)
	}
	if err := json.Unmarshal(data, &l.state); err != nil {
		return fmt.Errorf("parsing lottery state %s: %w", l.path, err)
	}
	if l.state.Participants == nil {
		l.state.Participants = make(map[string]int)
	}
	if l.state.Pot == 0 {
		l.state.Pot = l.deps.Config.InitialPot
	}

	l.logger.Info("Loaded lottery state", "path", l.path, "tickets", l.state.TotalTickets, "pot", l.state.Pot)
	return nil
}

// save flushes the pool. Callers must hold the mutex.
func (l *Lottery) save() error {
	if l.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(l.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding lottery state: %w", err)
	}
	return fileutil.WriteFileAtomic(l.path, data, 0o644)
}
