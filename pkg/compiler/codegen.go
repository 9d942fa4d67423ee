package compiler

import (
	"fmt"

	"ttmemory/pkg/script"
)

// Script names with a fixed meaning.
const (
	IdleScript       = "idle"
	QueryScript      = "q"
	RepeatScript     = "r"
	ShuffleScript    = "shuffle"
	StartScript      = "start"
	FirstCardScript  = "firstCard"
	SecondCardScript = "secondCard"
	TestScript       = "test"
	ClearScript1     = "clear1"
	ClearScript2     = "clear2"
	RestartScript    = "restart0"

	BusyRegister = "busy"
)

func PlayerScript(p int) string { return fmt.Sprintf("p%d", p) }

func CardScript(c int) string { return fmt.Sprintf("c%d", c) }

// CodeGen emits the scripts of one game. The first error sticks and every
// later emission is a no-op.
type CodeGen struct {
	def     Definition
	scripts []script.Script
	err     error
}

func newCodeGen(def Definition) *CodeGen {
	return &CodeGen{def: def}
}

// say returns the language specific narration label for key.
func (cg *CodeGen) say(key string, args ...any) string {
	return cg.def.Language + "_" + fmt.Sprintf(key, args...)
}

// emit parses the rendered lines of a script and appends it.
func (cg *CodeGen) emit(name string, lines ...string) {
	if cg.err != nil {
		return
	}
	s := script.Script{Name: name, Lines: make([]script.Line, 0, len(lines))}
	for i, src := range lines {
		l, err := script.ParseLine(src)
		if err != nil {
			cg.err = fmt.Errorf("script %s line %d: %w", name, i+1, err)
			return
		}
		s.Lines = append(s.Lines, l)
	}
	cg.scripts = append(cg.scripts, s)
}

// initLine lays out the cards in order and sets the number of pairs to find.
func (cg *CodeGen) initLine() string {
	var cmds string
	for c := 0; c < cg.def.NumCards(); c++ {
		cmds += fmt.Sprintf("$c%d:=%d ", c, c+1)
	}
	return cmds + fmt.Sprintf("$remaining:=%d $player:=1", cg.def.NumPairs())
}

// genIdle clears the busy flag. Every audible action ends by jumping here so
// the flag is released only after its narration has played.
func (cg *CodeGen) genIdle() {
	cg.emit(IdleScript, "$busy:=0")
}

func (cg *CodeGen) genPlayers() {
	for p := 1; p <= cg.def.MaxPlayers; p++ {
		lines := []string{
			// the first player field tapped fixes the number of players and seeds $random
			fmt.Sprintf("$players==0? $players:=%d $busy:=1 T($random,65535) J(%s) P(%s)", p, ShuffleScript, cg.say("shuffle")),
			fmt.Sprintf("$busy==0? $players<%d? $busy:=1 J(idle) P(%s)", p, cg.say("not_playing")),
		}
		for pa := 0; pa <= cg.def.NumPairs(); pa++ {
			lines = append(lines, fmt.Sprintf("$busy==0? $pairs%d==%d? $busy:=1 J(idle) P(%s)", p, pa, cg.say("pairs%d", pa)))
		}
		cg.emit(PlayerScript(p), lines...)
	}
}

// genQuery emits the question mark field. The not-started and in-progress
// lines must come before the winner lines.
func (cg *CodeGen) genQuery() {
	lines := []string{fmt.Sprintf("$busy==0? $players==0? $busy:=1 J(idle) P(%s)", cg.say("not_started"))}
	for p := 1; p <= cg.def.MaxPlayers; p++ {
		lines = append(lines, fmt.Sprintf("$busy==0? $remaining>0? $player==%d? $busy:=1 J(idle) P(%s)", p, cg.say("player%d", p)))
	}
	for p := 1; p <= cg.def.MaxPlayers; p++ {
		compare := "$busy==0? "
		for other := 1; other <= cg.def.MaxPlayers; other++ {
			if other != p {
				compare += fmt.Sprintf("$pairs%d>$pairs%d? ", p, other)
			}
		}
		lines = append(lines, compare+fmt.Sprintf("$busy:=1 J(idle) P(%s)", cg.say("winner%d", p)))
	}
	lines = append(lines, fmt.Sprintf("$busy==0? $busy:=1 J(idle) P(%s)", cg.say("draw")))
	cg.emit(QueryScript, lines...)
}

// genRepeat restarts a finished game, otherwise replays the last card.
func (cg *CodeGen) genRepeat() {
	lines := []string{fmt.Sprintf("$busy==0? $remaining==0? $busy:=1 J(%s) P(nop)", RestartScript)}
	for c := 1; c <= cg.def.NumCards(); c++ {
		lines = append(lines, fmt.Sprintf("$busy==0? $lastCard==%d? $busy:=1 J(idle) P(%s)", c, cg.def.CardSound(c)))
	}
	cg.emit(RepeatScript, lines...)
}

func (cg *CodeGen) genCards() {
	for c := 0; c < cg.def.NumCards(); c++ {
		cg.emit(CardScript(c),
			fmt.Sprintf("$players==0? P(%s)", cg.say("not_started")),
			fmt.Sprintf("$remaining==0? P(%s)", cg.say("finished")),
			// already cleared: let the player choose another field
			fmt.Sprintf("$busy==0? $c%d==0? $busy:=1 J(idle) P(%s)", c, cg.say("empty")),
			fmt.Sprintf("$busy==0? $card1==0? $card1:=$c%d $pos1:=%d $lastCard:=$c%d $busy:=1 J(%s) P(nop)", c, c, c, FirstCardScript),
			// tapped the first card again: read it out once more
			fmt.Sprintf("$busy==0? $card1==$c%d? $busy:=1 J(%s) P(nop)", c, FirstCardScript),
			fmt.Sprintf("$busy==0? $card1!=$c%d? $card2:=$c%d $pos2:=%d $lastCard:=$c%d $busy:=1 J(%s) P(nop)", c, c, c, c, SecondCardScript),
		)
	}
}

func (cg *CodeGen) genReaders() {
	var first, second []string
	for c := 1; c <= cg.def.NumCards(); c++ {
		first = append(first, fmt.Sprintf("$card1==%d? J(idle) P(%s)", c, cg.def.CardSound(c)))
		second = append(second, fmt.Sprintf("$card2==%d? $sum:=$card1 $sum+=$card2 $card1:=0 $card2:=0 J(%s) P(%s)", c, TestScript, cg.def.CardSound(c)))
	}
	cg.emit(FirstCardScript, first...)
	cg.emit(SecondCardScript, second...)
}

// genTest scores a match for the current player or passes the turn on. Two
// ids form a pair exactly when they sum to numCards+1.
func (cg *CodeGen) genTest() {
	var lines []string
	for p := 1; p <= cg.def.MaxPlayers; p++ {
		lines = append(lines, fmt.Sprintf("$sum==%d? $player==%d? $pairs%d+=1 $remaining-=1 J(%s) P(%s)", cg.def.NumCards()+1, p, p, ClearScript1, cg.say("match")))
	}
	lines = append(lines, fmt.Sprintf("$player==$players? $player:=1 J(idle) P(%s)", cg.say("player1")))
	for p := 1; p < cg.def.MaxPlayers; p++ {
		lines = append(lines, fmt.Sprintf("$player==%d? $player+=1 J(idle) P(%s)", p, cg.say("player%d", p+1)))
	}
	cg.emit(TestScript, lines...)
}

// genClear ends the game or removes the matched cards. The last pair stays
// on the board; nobody can tap it any more once the game is finished.
func (cg *CodeGen) genClear() {
	clear1 := []string{fmt.Sprintf("$remaining==0? $busy:=0 J(%s) P(%s)", QueryScript, cg.say("finished"))}
	var clear2 []string
	for c := 0; c < cg.def.NumCards(); c++ {
		clear1 = append(clear1, fmt.Sprintf("$pos1==%d? $c%d:=0 $pos1:=0 J(%s) P(nop)", c, c, ClearScript2))
		clear2 = append(clear2, fmt.Sprintf("$pos2==%d? $c%d:=0 $pos2:=0 J(idle) P(%s)", c, c, cg.say("continue")))
	}
	cg.emit(ClearScript1, clear1...)
	cg.emit(ClearScript2, clear2...)
}

// Generate emits every script family except the restart chain, in device
// order.
func (cg *CodeGen) Generate() ([]script.Script, error) {
	cg.genIdle()
	cg.genPlayers()
	cg.genQuery()
	cg.genRepeat()
	cg.genShuffle()
	cg.genCards()
	cg.genReaders()
	cg.genTest()
	cg.genClear()
	return cg.scripts, cg.err
}
