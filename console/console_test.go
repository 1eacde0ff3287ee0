package console_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/config"
	"github.com/crosswordlabs/wordcraft/console"
	"github.com/crosswordlabs/wordcraft/gaddagmaker"
	"github.com/crosswordlabs/wordcraft/game"
	"github.com/crosswordlabs/wordcraft/klv"
	"github.com/crosswordlabs/wordcraft/kwg"
	"github.com/crosswordlabs/wordcraft/tilemapping"
	"github.com/crosswordlabs/wordcraft/variant"
)

func mw(dist *tilemapping.LetterDistribution, s string) tilemapping.MachineWord {
	w, err := dist.StringToLetters(s)
	if err != nil {
		panic(err)
	}
	return w
}

func words(dist *tilemapping.LetterDistribution, ss ...string) []tilemapping.MachineWord {
	out := make([]tilemapping.MachineWord, len(ss))
	for i, s := range ss {
		out[i] = mw(dist, s)
	}
	return out
}

func newTestConsole(t *testing.T) (*console.Console, *bytes.Buffer) {
	t.Helper()
	dist := tilemapping.EnglishDistribution()
	g := gaddagmaker.BuildGaddag("test", words(dist, "CAT", "CATS", "AT", "ACT", "TA", "DOG", "DO", "OD", "GO"))
	rules, err := game.NewRules(board.CrosswordGameLayout, board.CrosswordGameBoard, dist,
		g, &kwg.Lexicon{KWG: g}, variant.VarClassic)
	if err != nil {
		t.Fatalf("NewRules: %v", err)
	}
	lv := klv.Build("test", nil)

	var cfg config.Config
	if err := cfg.Load(nil); err != nil {
		t.Fatalf("cfg.Load: %v", err)
	}

	var out bytes.Buffer
	c := console.New(&cfg, &out)
	c.SetLeaves(lv)

	bag := tilemapping.NewBag(dist, nil)
	gm := game.NewGame(rules, bag, "p1", "p2")
	gm.Player(0).Rack.Set(mw(dist, "CATDOG?"))
	gm.Player(1).Rack.Set(mw(dist, "ACTGOD?"))
	c.SetPosition(gm, rules)

	return c, &out
}

func TestDispatchUnknownCommand(t *testing.T) {
	c, _ := newTestConsole(t)
	err := c.Dispatch("bogus verb")
	es, ok := err.(*console.ErrorStatus)
	if !ok || es.Type != console.FamilyConfig || es.Code != "unknown_command" {
		t.Fatalf("err = %v, want config/unknown_command", err)
	}
}

func TestDispatchQuit(t *testing.T) {
	c, _ := newTestConsole(t)
	if err := c.Dispatch("quit"); err != console.ErrQuit {
		t.Fatalf("err = %v, want ErrQuit", err)
	}
}

func TestDispatchSetOptionsLexicon(t *testing.T) {
	c, out := newTestConsole(t)
	if err := c.Dispatch("setoptions lexicon CSW21 english"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !strings.Contains(out.String(), "setoptions ok") {
		t.Fatalf("output = %q, want confirmation line", out.String())
	}
}

func TestDispatchSetOptionsMalformedThreads(t *testing.T) {
	c, _ := newTestConsole(t)
	err := c.Dispatch("setoptions threads notanumber")
	es, ok := err.(*console.ErrorStatus)
	if !ok || es.Type != console.FamilyConfig || es.Code != "malformed_numeric_value" {
		t.Fatalf("err = %v, want config/malformed_numeric_value", err)
	}
}

func TestDispatchGoStaticListsMoves(t *testing.T) {
	c, out := newTestConsole(t)
	if err := c.Dispatch("go static"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !strings.Contains(out.String(), "move ") {
		t.Fatalf("output = %q, want at least one move line", out.String())
	}
}

func TestDispatchGoWithoutPositionReportsConfigError(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	var cfg config.Config
	if err := cfg.Load(nil); err != nil {
		t.Fatalf("cfg.Load: %v", err)
	}
	var out bytes.Buffer
	c := console.New(&cfg, &out)
	lv := klv.Build("test", nil)
	c.SetLeaves(lv)
	_ = dist

	err := c.Dispatch("go static")
	es, ok := err.(*console.ErrorStatus)
	if !ok || es.Type != console.FamilyConfig || es.Code != "position_not_loaded" {
		t.Fatalf("err = %v, want config/position_not_loaded", err)
	}
}

func TestDispatchGoAutoplayIsStubbed(t *testing.T) {
	c, _ := newTestConsole(t)
	err := c.Dispatch("go autoplay")
	es, ok := err.(*console.ErrorStatus)
	if !ok || es.Type != console.FamilySearch || es.Code != "not_implemented" {
		t.Fatalf("err = %v, want search_status/not_implemented", err)
	}
}

func TestDispatchGoInferReportsResult(t *testing.T) {
	c, out := newTestConsole(t)
	if err := c.Dispatch("go infer CAT 6 1000"); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !strings.Contains(out.String(), "inference_status") {
		t.Fatalf("output = %q, want an inference_status line", out.String())
	}
}

func TestDispatchPositionCGP(t *testing.T) {
	c, out := newTestConsole(t)
	cgp := "15/15/15/15/15/15/15/15/15/15/15/15/15/15/15 CAT/DOG 0/0 0"
	if err := c.Dispatch("position cgp " + cgp); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}
	if !strings.Contains(out.String(), "position ok") {
		t.Fatalf("output = %q, want confirmation line", out.String())
	}
}

func TestDispatchStopWithNoRunningSearchIsANoop(t *testing.T) {
	c, _ := newTestConsole(t)
	if err := c.Dispatch("stop"); err != nil {
		t.Fatalf("Dispatch(stop): %v", err)
	}
}
