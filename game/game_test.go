package game_test

import (
	"testing"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/gaddagmaker"
	"github.com/crosswordlabs/wordcraft/game"
	"github.com/crosswordlabs/wordcraft/kwg"
	"github.com/crosswordlabs/wordcraft/move"
	"github.com/crosswordlabs/wordcraft/tilemapping"
	"github.com/crosswordlabs/wordcraft/variant"
)

func testRules(t *testing.T) *game.Rules {
	t.Helper()
	dist := tilemapping.EnglishDistribution()
	g := gaddagmaker.BuildGaddag("test", nil)
	rules, err := game.NewRules(board.CrosswordGameLayout, board.CrosswordGameBoard, dist,
		g, &kwg.Lexicon{KWG: g}, variant.VarClassic)
	if err != nil {
		t.Fatalf("NewRules: %v", err)
	}
	return rules
}

func TestNewGameDealsFullRacks(t *testing.T) {
	rules := testRules(t)
	bag := tilemapping.NewBag(rules.LetterDistribution(), nil)
	g := game.NewGame(rules, bag, "p1", "p2")

	if g.Player(0).Rack.NumTiles() != game.RackSize {
		t.Fatalf("player 0 rack has %d tiles, want %d", g.Player(0).Rack.NumTiles(), game.RackSize)
	}
	if g.Player(1).Rack.NumTiles() != game.RackSize {
		t.Fatalf("player 1 rack has %d tiles, want %d", g.Player(1).Rack.NumTiles(), game.RackSize)
	}
	wantRemaining := rules.LetterDistribution().TotalTiles() - 2*game.RackSize
	if g.Bag().TilesRemaining() != wantRemaining {
		t.Fatalf("bag has %d tiles remaining, want %d", g.Bag().TilesRemaining(), wantRemaining)
	}
}

func TestPlayMoveScoresAndAdvancesTurn(t *testing.T) {
	rules := testRules(t)
	bag := tilemapping.NewBag(rules.LetterDistribution(), nil)
	g := game.NewGame(rules, bag, "p1", "p2")

	before := g.OnTurnIndex()
	beforeScore := g.Player(before).Score
	beforeBag := g.Bag().TilesRemaining()

	word, _ := rules.LetterDistribution().StringToLetters("CAT")
	m := move.NewPlay(10, word, nil, false, 3, 7, 7)
	g.PlayMove(m)

	if g.Player(before).Score != beforeScore+10 {
		t.Fatalf("score after play = %d, want %d", g.Player(before).Score, beforeScore+10)
	}
	if g.OnTurnIndex() == before {
		t.Fatal("expected turn to advance after a play")
	}
	if g.Bag().TilesRemaining() != beforeBag-3 {
		t.Fatalf("bag remaining after play = %d, want %d", g.Bag().TilesRemaining(), beforeBag-3)
	}
	if g.Board().TilesPlayed() != 3 {
		t.Fatalf("board tiles played = %d, want 3", g.Board().TilesPlayed())
	}
}

func TestPlayMovePassIncrementsScorelessTurns(t *testing.T) {
	rules := testRules(t)
	bag := tilemapping.NewBag(rules.LetterDistribution(), nil)
	g := game.NewGame(rules, bag, "p1", "p2")

	for i := 0; i < game.MaxScorelessTurns-1; i++ {
		g.PlayMove(move.NewPass(nil))
	}
	if g.IsOver() {
		t.Fatal("game should not be over before MaxScorelessTurns consecutive scoreless turns")
	}
	g.PlayMove(move.NewPass(nil))
	if !g.IsOver() {
		t.Fatal("expected game to end after MaxScorelessTurns consecutive scoreless turns")
	}
	if g.EndReason() != game.EndReasonConsecutiveZeros {
		t.Fatalf("end reason = %v, want EndReasonConsecutiveZeros", g.EndReason())
	}
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	rules := testRules(t)
	bag := tilemapping.NewBag(rules.LetterDistribution(), nil)
	g := game.NewGame(rules, bag, "p1", "p2")

	snap := g.Backup()
	wantScore := g.Player(0).Score
	wantBag := g.Bag().TilesRemaining()
	wantOnTurn := g.OnTurnIndex()

	word, _ := rules.LetterDistribution().StringToLetters("CAT")
	m := move.NewPlay(10, word, nil, false, 3, 7, 7)
	g.PlayMove(m)

	g.Restore(snap)

	if g.Player(0).Score != wantScore {
		t.Fatalf("score after restore = %d, want %d", g.Player(0).Score, wantScore)
	}
	if g.Bag().TilesRemaining() != wantBag {
		t.Fatalf("bag after restore = %d, want %d", g.Bag().TilesRemaining(), wantBag)
	}
	if g.OnTurnIndex() != wantOnTurn {
		t.Fatalf("onTurn after restore = %d, want %d", g.OnTurnIndex(), wantOnTurn)
	}
	if g.Board().TilesPlayed() != 0 {
		t.Fatalf("board tiles played after restore = %d, want 0", g.Board().TilesPlayed())
	}
}
