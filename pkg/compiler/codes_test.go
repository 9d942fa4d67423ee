package compiler

import (
	"testing"
)

func TestAssignCodesFreshGame(t *testing.T) {
	p := mustCompile(t, testDefinition(2, 1), nil)

	fixed := map[string]int{
		"q": 2000, "r": 2001, "p1": 2002,
		"c0": 3000, "c1": 3001, "c2": 3002, "c3": 3003,
		"idle": 4000, "shuffle": 4001, "shuffle0": 4002,
	}
	for name, want := range fixed {
		if got := p.Codes[name]; got != want {
			t.Errorf("code of %s = %d; want %d", name, got, want)
		}
	}

	// every script has a distinct code
	seen := make(map[int]string)
	for _, s := range p.Scripts {
		code, ok := p.Codes[s.Name]
		if !ok {
			t.Errorf("script %s has no code", s.Name)
			continue
		}
		if other, dup := seen[code]; dup {
			t.Errorf("code %d used by %s and %s", code, other, s.Name)
		}
		seen[code] = s.Name
	}
}

func TestAssignCodesKeepsPriorCodes(t *testing.T) {
	first := mustCompile(t, testDefinition(2, 2), nil)

	// regenerate a bigger game from the printed codes
	second := mustCompile(t, testDefinition(3, 3), first.Codes)
	for name, code := range first.Codes {
		if second.Codes[name] != code {
			t.Errorf("code of %s changed from %d to %d", name, code, second.Codes[name])
		}
	}
	if second.Codes["p3"] != 2004 || second.Codes["c5"] != 3005 {
		t.Errorf("new fields got p3=%d c5=%d", second.Codes["p3"], second.Codes["c5"])
	}

	// regenerating the same game is a no-op
	third := mustCompile(t, testDefinition(3, 3), second.Codes)
	if len(third.Codes) != len(second.Codes) {
		t.Errorf("recompilation added codes: %d -> %d", len(second.Codes), len(third.Codes))
	}
	for name, code := range second.Codes {
		if third.Codes[name] != code {
			t.Errorf("code of %s changed from %d to %d", name, code, third.Codes[name])
		}
	}
}

func TestAssignCodesSkipsTakenCodes(t *testing.T) {
	prior := Codes{"idle": 4001, "q": 1234}
	p := mustCompile(t, testDefinition(1, 1), prior)

	if p.Codes["q"] != 1234 {
		t.Errorf("prior code of q overwritten: %d", p.Codes["q"])
	}
	if p.Codes["idle"] != 4001 {
		t.Errorf("prior code of idle overwritten: %d", p.Codes["idle"])
	}
	// the first free code goes to the next script lacking one
	if p.Codes["shuffle"] != 4000 || p.Codes["shuffle0"] != 4002 {
		t.Errorf("shuffle=%d shuffle0=%d; want 4000 4002", p.Codes["shuffle"], p.Codes["shuffle0"])
	}
	if _, ok := prior["shuffle"]; ok {
		t.Errorf("AssignCodes modified the prior table")
	}
}

func TestAssignCodesFixedCodeTaken(t *testing.T) {
	p := mustCompile(t, testDefinition(2, 2), Codes{"idle": 2003})

	if p.Codes["idle"] != 2003 {
		t.Errorf("prior code of idle overwritten: %d", p.Codes["idle"])
	}
	if p.Codes["p2"] != OtherBase {
		t.Errorf("p2 = %d; want the first free code %d", p.Codes["p2"], OtherBase)
	}
	seen := make(map[int]string)
	for name, code := range p.Codes {
		if other, dup := seen[code]; dup {
			t.Errorf("code %d shared by %s and %s", code, other, name)
		}
		seen[code] = name
	}
}

func TestCodesNames(t *testing.T) {
	c := Codes{"b": 2, "a": 2, "z": 1}
	got := c.Names()
	if len(got) != 3 || got[0] != "z" || got[1] != "a" || got[2] != "b" {
		t.Errorf("Names() = %v", got)
	}
}
