package tilemapping

import "testing"

func TestEnglishDistribution(t *testing.T) {
	dist := EnglishDistribution()
	if dist.Size() != 26 {
		t.Fatalf("expected 26 letters, got %d", dist.Size())
	}
	if dist.TotalTiles() != 100 {
		t.Fatalf("expected 100 tiles, got %d", dist.TotalTiles())
	}
	a, ok := dist.TileMapping().MachineLetterFromRune('A')
	if !ok {
		t.Fatal("A should be in alphabet")
	}
	if !dist.IsVowel(a) {
		t.Fatal("A should be a vowel")
	}
	q, _ := dist.TileMapping().MachineLetterFromRune('Q')
	if dist.Score(q) != 10 {
		t.Fatalf("expected Q to score 10, got %d", dist.Score(q))
	}
	// A designated blank always scores 0 regardless of underlying letter.
	if dist.Score(Blanked(q)) != 0 {
		t.Fatal("blanked Q should score 0")
	}
}

func TestStringRoundTrip(t *testing.T) {
	dist := EnglishDistribution()
	mw, err := dist.StringToLetters("HELLO")
	if err != nil {
		t.Fatal(err)
	}
	s := mw.UserVisible(dist.TileMapping())
	if s != "HELLO" {
		t.Fatalf("round trip failed: got %q", s)
	}
}

func TestBlankRoundTrip(t *testing.T) {
	dist := EnglishDistribution()
	h, _ := dist.TileMapping().MachineLetterFromRune('H')
	blanked := Blanked(h)
	s := dist.LetterToString(blanked)
	if s != "h" {
		t.Fatalf("expected lowercase h for designated blank, got %q", s)
	}
}
