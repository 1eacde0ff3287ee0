package gcgio_test

import (
	"strings"
	"testing"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/gaddagmaker"
	"github.com/crosswordlabs/wordcraft/game"
	"github.com/crosswordlabs/wordcraft/gcgio"
	"github.com/crosswordlabs/wordcraft/kwg"
	"github.com/crosswordlabs/wordcraft/tilemapping"
	"github.com/crosswordlabs/wordcraft/variant"
)

const sampleGCG = `#player1 frentz Frentz
#player2 roy Roy
>frentz: ABEORRT 8D BATTER +14 14
>roy: AEIOU? 9E ORATE +16 16
>frentz: ACEMNOT -NOTE +0 14
`

func TestParseGCGFromReaderBasic(t *testing.T) {
	h, err := gcgio.ParseGCGFromReader(strings.NewReader(sampleGCG))
	if err != nil {
		t.Fatalf("ParseGCGFromReader: %v", err)
	}
	if len(h.Players) != 2 || h.Players[0].Nickname != "frentz" || h.Players[1].Nickname != "roy" {
		t.Fatalf("unexpected players: %+v", h.Players)
	}
	if len(h.Turns) != 3 {
		t.Fatalf("expected 3 turns, got %d", len(h.Turns))
	}

	first := h.Turns[0].Events[0]
	if first.Type != gcgio.EventTilePlacement || first.PlayedTiles != "BATTER" || first.Score != 14 {
		t.Fatalf("unexpected first event: %+v", first)
	}
	if first.Row != 7 || first.Col != 3 || first.Vertical {
		t.Fatalf("unexpected coords: row=%d col=%d vertical=%v", first.Row, first.Col, first.Vertical)
	}

	third := h.Turns[2].Events[0]
	if third.Type != gcgio.EventExchange || third.Exchanged != "NOTE" {
		t.Fatalf("unexpected exchange event: %+v", third)
	}
}

func TestParseGCGRejectsUnknownLine(t *testing.T) {
	_, err := gcgio.ParseGCGFromReader(strings.NewReader("#player1 a A\nthis is garbage\n"))
	if err == nil {
		t.Fatalf("expected an error for an unparseable line")
	}
}

func TestGameHistoryToGCGRoundTripsEvents(t *testing.T) {
	h, err := gcgio.ParseGCGFromReader(strings.NewReader(sampleGCG))
	if err != nil {
		t.Fatalf("ParseGCGFromReader: %v", err)
	}
	out, err := gcgio.GameHistoryToGCG(h)
	if err != nil {
		t.Fatalf("GameHistoryToGCG: %v", err)
	}
	h2, err := gcgio.ParseGCGFromReader(strings.NewReader(out))
	if err != nil {
		t.Fatalf("re-parsing rendered GCG: %v", err)
	}
	if len(h2.Turns) != len(h.Turns) {
		t.Fatalf("round trip turn count mismatch: got %d want %d", len(h2.Turns), len(h.Turns))
	}
	for i, turn := range h.Turns {
		if turn.Events[0].PlayedTiles != h2.Turns[i].Events[0].PlayedTiles {
			t.Fatalf("round trip mismatch at turn %d", i)
		}
	}
}

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

func TestCheckPhoniesFlagsRejectedWord(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	g := gaddagmaker.BuildGaddag("test", words(dist, "CAT", "CATS", "DOG"))
	rules, err := game.NewRules(board.CrosswordGameLayout, board.CrosswordGameBoard, dist,
		g, &kwg.Lexicon{KWG: g}, variant.VarClassic)
	if err != nil {
		t.Fatalf("NewRules: %v", err)
	}

	log := "#player1 a A\n#player2 b B\n>a: CATXYZ 8H CAT +10 10\n>b: XYZABC 1A ZZZ +0 10\n"
	h, err := gcgio.ParseGCGFromReader(strings.NewReader(log))
	if err != nil {
		t.Fatalf("ParseGCGFromReader: %v", err)
	}

	phonies, err := gcgio.CheckPhonies(h, rules)
	if err != nil {
		t.Fatalf("CheckPhonies: %v", err)
	}
	if len(phonies) != 1 {
		t.Fatalf("expected exactly one phony turn, got %d: %+v", len(phonies), phonies)
	}
	if phonies[0].TurnIndex != 1 || phonies[0].Words[0] != "ZZZ" {
		t.Fatalf("unexpected phony report: %+v", phonies[0])
	}
}

func TestCheckPhoniesAcceptsValidWord(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	g := gaddagmaker.BuildGaddag("test", words(dist, "CAT", "CATS", "DOG"))
	rules, err := game.NewRules(board.CrosswordGameLayout, board.CrosswordGameBoard, dist,
		g, &kwg.Lexicon{KWG: g}, variant.VarClassic)
	if err != nil {
		t.Fatalf("NewRules: %v", err)
	}

	log := "#player1 a A\n#player2 b B\n>a: CATXYZ 8H CAT +10 10\n"
	h, err := gcgio.ParseGCGFromReader(strings.NewReader(log))
	if err != nil {
		t.Fatalf("ParseGCGFromReader: %v", err)
	}

	phonies, err := gcgio.CheckPhonies(h, rules)
	if err != nil {
		t.Fatalf("CheckPhonies: %v", err)
	}
	if len(phonies) != 0 {
		t.Fatalf("expected no phonies, got %+v", phonies)
	}
}
