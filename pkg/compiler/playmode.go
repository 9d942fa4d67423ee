package compiler

import (
	"strings"

	"ttmemory/pkg/script"
)

// PlayMode rewrites a rendered line for the interactive player of tttool:
// silent P(nop) tokens are dropped and every J(x) directly followed by P(y)
// becomes P(y) J(x). The player only executes the last play of a chain of
// jumps, so the narration has to come first. Applying it twice changes
// nothing.
func PlayMode(line string) string {
	fields := strings.Fields(line)

	kept := fields[:0]
	for _, f := range fields {
		if f != "P("+script.Nop+")" {
			kept = append(kept, f)
		}
	}

	out := make([]string, 0, len(kept))
	for i := 0; i < len(kept); i++ {
		if i+1 < len(kept) && isBuiltin(kept[i], 'J') && isBuiltin(kept[i+1], 'P') {
			out = append(out, kept[i+1], kept[i])
			i++
			continue
		}
		out = append(out, kept[i])
	}
	return strings.Join(out, " ")
}

func isBuiltin(field string, name byte) bool {
	return len(field) > 3 && field[0] == name && field[1] == '(' && field[len(field)-1] == ')'
}
