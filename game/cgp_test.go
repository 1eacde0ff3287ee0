package game_test

import (
	"testing"

	"github.com/crosswordlabs/wordcraft/game"
)

func TestParseCGPEmptyPosition(t *testing.T) {
	rules := testRules(t)
	cgp := "15/15/15/15/15/15/15/15/15/15/15/15/15/15/15 / 0/0 0"
	g, err := game.ParseCGP(rules, cgp)
	if err != nil {
		t.Fatalf("ParseCGP: %v", err)
	}
	if g.Board().TilesPlayed() != 0 {
		t.Fatalf("tiles played = %d, want 0", g.Board().TilesPlayed())
	}
	if !g.Player(0).Rack.Empty() || !g.Player(1).Rack.Empty() {
		t.Fatal("expected both racks empty")
	}
}

func TestParseCGPWithTilesAndRacks(t *testing.T) {
	rules := testRules(t)
	board := "3CAT9/15/15/15/15/15/15/15/15/15/15/15/15/15/15 DEF/GHI 10/0 0"
	g, err := game.ParseCGP(rules, board)
	if err != nil {
		t.Fatalf("ParseCGP: %v", err)
	}
	if g.Board().TilesPlayed() != 3 {
		t.Fatalf("tiles played = %d, want 3", g.Board().TilesPlayed())
	}
	if g.Player(0).Rack.NumTiles() != 3 || g.Player(1).Rack.NumTiles() != 3 {
		t.Fatalf("expected both racks to hold 3 tiles, got %d and %d",
			g.Player(0).Rack.NumTiles(), g.Player(1).Rack.NumTiles())
	}
	if g.Player(0).Score != 10 {
		t.Fatalf("player 0 score = %d, want 10", g.Player(0).Score)
	}
}

func TestCGPRoundTrip(t *testing.T) {
	rules := testRules(t)
	cgp := "3CAT9/15/15/15/15/15/15/15/15/15/15/15/15/15/15 DEF/GHI 10/0 0"
	g1, err := game.ParseCGP(rules, cgp)
	if err != nil {
		t.Fatalf("ParseCGP: %v", err)
	}
	serialized := g1.Serialize()

	g2, err := game.ParseCGP(rules, serialized)
	if err != nil {
		t.Fatalf("ParseCGP of serialized output: %v\n%s", err, serialized)
	}

	for r := 0; r < g1.Board().Dim(); r++ {
		for c := 0; c < g1.Board().Dim(); c++ {
			if g1.Board().Letter(r, c) != g2.Board().Letter(r, c) {
				t.Fatalf("board mismatch at (%d,%d): %v != %v", r, c, g1.Board().Letter(r, c), g2.Board().Letter(r, c))
			}
		}
	}
	if g1.Player(0).Score != g2.Player(0).Score || g1.Player(1).Score != g2.Player(1).Score {
		t.Fatal("score mismatch after round-trip")
	}
	if g1.Player(0).Rack.NumTiles() != g2.Player(0).Rack.NumTiles() {
		t.Fatal("rack size mismatch after round-trip")
	}
}

func TestParseCGPRejectsMalformedScoreless(t *testing.T) {
	rules := testRules(t)
	cgp := "15/15/15/15/15/15/15/15/15/15/15/15/15/15/15 / 0/0 x"
	if _, err := game.ParseCGP(rules, cgp); err == nil {
		t.Fatal("expected a parse error for a non-numeric scoreless-turns field")
	}
}
