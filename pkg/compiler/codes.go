package compiler

import (
	"sort"

	"ttmemory/pkg/logger"
	"ttmemory/pkg/script"
)

// Base codes. Query, repeat, player and card fields get codes derived from
// their position so a printed board stays valid when the game is
// regenerated with more pairs or players.
const (
	QueryCode  = 2000
	RepeatCode = 2001
	PlayerBase = 2002
	CardBase   = 3000
	OtherBase  = 4000
)

// Codes maps script names to the optical codes printed for them.
type Codes map[string]int

// Clone returns an independent copy of c.
func (c Codes) Clone() Codes {
	out := make(Codes, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Names returns the script names ordered by code, then by name.
func (c Codes) Names() []string {
	names := make([]string, 0, len(c))
	for k := range c {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if c[names[i]] != c[names[j]] {
			return c[names[i]] < c[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// AssignCodes fills in a code for every script lacking one in prior. Codes
// already present in prior are never changed.
func AssignCodes(scripts []script.Script, players, cards int, prior Codes) Codes {
	codes := prior.Clone()

	used := make(map[int]bool)
	for _, v := range codes {
		used[v] = true
	}
	// a fixed code already held by another script is left to the free
	// codes below
	fixed := func(name string, code int) {
		if _, ok := codes[name]; ok {
			return
		}
		if used[code] {
			logger.Logf(logTag, "code %d of %s is taken, assigning a free one", code, name)
			return
		}
		codes[name] = code
		used[code] = true
	}

	fixed(QueryScript, QueryCode)
	fixed(RepeatScript, RepeatCode)
	for p := 1; p <= players; p++ {
		fixed(PlayerScript(p), PlayerBase+p-1)
	}
	for c := 0; c < cards; c++ {
		fixed(CardScript(c), CardBase+c)
	}

	next := OtherBase
	for _, s := range scripts {
		if _, ok := codes[s.Name]; ok {
			continue
		}
		for used[next] {
			next++
		}
		codes[s.Name] = next
		used[next] = true
	}
	return codes
}
