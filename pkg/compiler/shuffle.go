package compiler

import "fmt"

// Linear congruential generator driving the shuffle. The device registers
// are 16 bits wide, so every step wraps modulo 65536.
const (
	lcgMultiplier = 25173
	lcgIncrement  = 13849
)

// ShuffleState names the script deciding which card moves to position pos1.
func ShuffleState(pos1 int) string { return fmt.Sprintf("%s%d", ShuffleScript, pos1) }

// lcgStep advances $random and copies it into $rnd.
func lcgStep() string {
	return fmt.Sprintf("$random*=%d $random+=%d $rnd:=$random", lcgMultiplier, lcgIncrement)
}

// genShuffle unrolls an in-place shuffle of the card registers into one
// state per position. The decision value $pos for a state is extracted
// from $rnd by the state before it, so a state only compares and swaps.
func (cg *CodeGen) genShuffle() {
	n := cg.def.NumCards()

	cg.emit(ShuffleScript, fmt.Sprintf("%s $pos:=$rnd $pos%%=%d $rnd/=%d J(%s) P(nop)", lcgStep(), n, n, ShuffleState(0)))

	for pos1 := 0; pos1 <= n-2; pos1++ {
		cg.emit(ShuffleState(pos1), cg.shuffleState(pos1)...)
	}

	cg.emit(StartScript, fmt.Sprintf("J(idle) P(%s)", cg.say("player1")))
}

// shuffleState returns the lines of the state for position pos1: an
// optional regeneration guard, then one line per candidate position pos2.
func (cg *CodeGen) shuffleState(pos1 int) []string {
	n := cg.def.NumCards()
	last := pos1 == n-2

	var lines []string
	if !last {
		// $rnd is too small to extract further values: draw a new random
		// number and enter this state again. This needs a line of its own,
		// the budget does not allow regenerating and deciding at once.
		lines = append(lines, fmt.Sprintf("$rnd<%d? %s J(%s) P(nop)", 10*(n-pos1), lcgStep(), ShuffleState(pos1)))
	}

	for pos2 := pos1; pos2 < n; pos2++ {
		l := fmt.Sprintf("$pos==%d? ", pos2-pos1)
		if pos1 != pos2 {
			l += fmt.Sprintf("$t:=$c%d $c%d:=$c%d $c%d:=$t ", pos1, pos1, pos2, pos2)
		}
		if last {
			l += fmt.Sprintf("J(%s) P(%s)", StartScript, cg.say("start"))
		} else {
			m := n - pos1 - 1
			l += fmt.Sprintf("$pos:=$rnd $pos%%=%d $rnd/=%d J(%s)", m, m, ShuffleState(pos1+1))
		}
		lines = append(lines, l)
	}
	return lines
}
