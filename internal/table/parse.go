package table

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsedAction is a decoded wagering command
type ParsedAction struct {
	Action Action
	Amount int  // for bet/raise
	HasAmt bool // whether an explicit amount was supplied
}

// ParseAction decodes a chat line into an action token. Commands accept
// an optional "!" prefix ("!bet 500" and "bet 500" are the same). A
// malformed line yields ErrInvalidAction so the caller re-prompts.
func ParseAction(text string) (ParsedAction, error) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(text)))
	if len(fields) == 0 {
		return ParsedAction{}, fmt.Errorf("%w: empty input", ErrInvalidAction)
	}

	word := strings.TrimPrefix(fields[0], "!")
	switch word {
	case "check":
		return ParsedAction{Action: Check}, nil
	case "call":
		return ParsedAction{Action: Call}, nil
	case "fold":
		return ParsedAction{Action: Fold}, nil
	case "allin", "all-in":
		return ParsedAction{Action: AllIn}, nil
	case "bet", "raise":
		act := Bet
		if word == "raise" {
			act = Raise
		}
		if len(fields) == 1 {
			return ParsedAction{Action: act}, nil
		}
		amount, err := strconv.Atoi(fields[1])
		if err != nil || amount < 1 {
			return ParsedAction{}, fmt.Errorf("%w: %q is not a valid amount", ErrInvalidAction, fields[1])
		}
		return ParsedAction{Action: act, Amount: amount, HasAmt: true}, nil
	default:
		return ParsedAction{}, fmt.Errorf("%w: unknown command %q", ErrInvalidAction, fields[0])
	}
}
