package compiler

import (
	"errors"
	"fmt"
	"strings"
)

const (
	DefaultMaxPlayers = 4
	DefaultLanguage   = "en"
	DefaultTitle      = "Memory"

	// MaxPlayerLimit bounds the player count: the winner line of the query
	// script needs one comparison per opponent plus four fixed tokens.
	MaxPlayerLimit = 5
)

// ErrDefinition is returned for a game definition that cannot be compiled.
var ErrDefinition = errors.New("invalid game definition")

// Definition describes one memory game.
type Definition struct {
	// Pairs holds one narration label per pair; there are twice as many cards.
	Pairs []string

	MaxPlayers int

	// AlternativeSounds selects label_a and label_b for the two halves of a
	// pair instead of sharing one label.
	AlternativeSounds bool

	// Language prefixes every instruction narration, e.g. en_start.
	Language string
	Title    string

	// Welcome is played at the end of a restart.
	Welcome string
}

// WithDefaults returns a copy of d with empty settings filled in.
func (d Definition) WithDefaults() Definition {
	if d.MaxPlayers == 0 {
		d.MaxPlayers = DefaultMaxPlayers
	}
	if d.Language == "" {
		d.Language = DefaultLanguage
	}
	if d.Title == "" {
		d.Title = DefaultTitle
	}
	if d.Welcome == "" {
		d.Welcome = d.Language + "_welcome"
	}
	return d
}

func (d Definition) NumPairs() int { return len(d.Pairs) }

func (d Definition) NumCards() int { return 2 * len(d.Pairs) }

// Partner returns the id of the card matching card id c. Ids are 1-based.
func (d Definition) Partner(c int) int {
	return d.NumCards() + 1 - c
}

// CardSound returns the narration label of card id c.
func (d Definition) CardSound(c int) string {
	if c <= d.NumPairs() {
		p := d.Pairs[c-1]
		if d.AlternativeSounds {
			return p + "_a"
		}
		return p
	}
	p := d.Pairs[d.NumCards()-c]
	if d.AlternativeSounds {
		return p + "_b"
	}
	return p
}

// CardLabels lists the narration labels of all pairs, in pair order.
func (d Definition) CardLabels() []string {
	var labels []string
	for _, p := range d.Pairs {
		if d.AlternativeSounds {
			labels = append(labels, p+"_a", p+"_b")
		} else {
			labels = append(labels, p)
		}
	}
	return labels
}

// Validate reports the first reason d cannot be compiled.
func (d Definition) Validate() error {
	if len(d.Pairs) == 0 {
		return fmt.Errorf("%w: no pairs", ErrDefinition)
	}
	if d.MaxPlayers < 1 || d.MaxPlayers > MaxPlayerLimit {
		return fmt.Errorf("%w: maxPlayers %d outside 1..%d", ErrDefinition, d.MaxPlayers, MaxPlayerLimit)
	}
	if !isLabel(d.Language) {
		return fmt.Errorf("%w: invalid language %q", ErrDefinition, d.Language)
	}
	if !isLabel(d.Welcome) {
		return fmt.Errorf("%w: invalid welcome label %q", ErrDefinition, d.Welcome)
	}

	seen := make(map[string]bool)
	for i, p := range d.Pairs {
		if !isLabel(p) {
			return fmt.Errorf("%w: pair %d has invalid label %q", ErrDefinition, i+1, p)
		}
		if p == "nop" {
			return fmt.Errorf("%w: pair %d uses the reserved label %q", ErrDefinition, i+1, p)
		}
		if seen[p] {
			return fmt.Errorf("%w: duplicate pair %q", ErrDefinition, p)
		}
		seen[p] = true
	}
	return nil
}

// isLabel reports whether s can be used inside P(...).
func isLabel(s string) bool {
	return s != "" && !strings.ContainsAny(s, "() \t\n$?,")
}
