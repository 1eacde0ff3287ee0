package tilemapping

import "testing"

func TestRackSetAndTilesOn(t *testing.T) {
	dist := EnglishDistribution()
	r := NewRack(dist)
	mw, err := dist.StringToLetters("DEGORV?")
	if err != nil {
		t.Fatal(err)
	}
	r.Set(mw)
	if r.NumTiles() != 7 {
		t.Fatalf("expected 7 tiles, got %d", r.NumTiles())
	}
	if r.Empty() {
		t.Fatal("rack should not be empty")
	}
	if r.Count(0) != 1 {
		t.Fatalf("expected 1 blank, got %d", r.Count(0))
	}
	tilesOn := r.TilesOn()
	if len(tilesOn) != 7 {
		t.Fatalf("expected 7 tiles on rack, got %d", len(tilesOn))
	}
}

func TestRackTakeAdd(t *testing.T) {
	dist := EnglishDistribution()
	r := NewRack(dist)
	aIdx, _ := dist.TileMapping().MachineLetterFromRune('A')
	r.Add(aIdx)
	r.Add(aIdx)
	if r.Count(aIdx) != 2 {
		t.Fatalf("expected 2 As, got %d", r.Count(aIdx))
	}
	r.Take(aIdx)
	if r.Count(aIdx) != 1 || r.NumTiles() != 1 {
		t.Fatalf("take did not update counts correctly")
	}
}

func TestScoreOnRack(t *testing.T) {
	dist := EnglishDistribution()
	r := NewRack(dist)
	mw, _ := dist.StringToLetters("QZ")
	r.Set(mw)
	// Q=10, Z=10
	if got := r.ScoreOnRack(); got != 20 {
		t.Fatalf("expected 20, got %d", got)
	}
}
