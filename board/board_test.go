package board_test

import (
	"testing"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/gaddagmaker"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

func mw(dist *tilemapping.LetterDistribution, s string) tilemapping.MachineWord {
	w, err := dist.StringToLetters(s)
	if err != nil {
		panic(err)
	}
	return w
}

func TestEmptyBoardAnchor(t *testing.T) {
	b := board.NewBoard(board.CrosswordGameBoard)
	if !b.Anchor(7, 7, board.Horizontal) {
		t.Fatal("expected center square to be the sole opening anchor")
	}
	if b.Anchor(7, 6, board.Horizontal) {
		t.Fatal("non-center square should not be an anchor on an empty board")
	}
}

func TestCrossSetAfterPlacingCat(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	g := gaddagmaker.BuildGaddag("test", []tilemapping.MachineWord{
		mw(dist, "CAT"), mw(dist, "CATS"),
	})
	b := board.NewBoard(board.CrosswordGameBoard)
	word := mw(dist, "CAT")
	placed := b.PlaceWord(word, 0, len(word)-1, 7, 7, board.Horizontal)
	b.UpdateCrossSetsForPlacement(placed, g, dist)

	// For a vertical play, the square directly right of the T of CAT
	// (col 10) should allow S, since CAT + S (horizontally) spells CATS.
	tm := dist.TileMapping()
	s, _ := tm.MachineLetterFromRune('S')
	z, _ := tm.MachineLetterFromRune('Z')
	mask := b.CrossSet(7, 10, board.Vertical)
	if mask&(uint64(1)<<s) == 0 {
		t.Fatal("expected S to close CAT+S=CATS horizontally")
	}
	if mask&(uint64(1)<<z) != 0 {
		t.Fatal("Z should not close a valid word after CAT")
	}
}

func TestScoreMoveNoBonusSquares(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	b := board.NewBoard(board.CrosswordGameBoard)
	word := mw(dist, "AT")
	// Play AT at (5,6)-(5,7), two squares without a bonus on the classic
	// board, and assert the formula returns a positive score.
	score := board.ScoreMove(b, word, 0, len(word)-1, 5, 6, 2, board.Horizontal, dist)
	if score <= 0 {
		t.Fatalf("expected positive score, got %d", score)
	}
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	g := gaddagmaker.BuildGaddag("test", []tilemapping.MachineWord{mw(dist, "CAT")})
	b := board.NewBoard(board.CrosswordGameBoard)
	snap := b.Backup()

	word := mw(dist, "CAT")
	placed := b.PlaceWord(word, 0, len(word)-1, 7, 7, board.Horizontal)
	b.UpdateCrossSetsForPlacement(placed, g, dist)
	if b.TilesPlayed() != 3 {
		t.Fatalf("expected 3 tiles played, got %d", b.TilesPlayed())
	}

	b.Restore(snap)
	if b.TilesPlayed() != 0 {
		t.Fatalf("expected 0 tiles played after restore, got %d", b.TilesPlayed())
	}
	if !b.IsEmpty(7, 7) {
		t.Fatal("expected (7,7) empty after restore")
	}
}
