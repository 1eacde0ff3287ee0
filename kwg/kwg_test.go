package kwg_test

import (
	"testing"

	"github.com/crosswordlabs/wordcraft/gaddagmaker"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

func words(dist *tilemapping.LetterDistribution, ws ...string) []tilemapping.MachineWord {
	out := make([]tilemapping.MachineWord, len(ws))
	for i, w := range ws {
		mw, err := dist.StringToLetters(w)
		if err != nil {
			panic(err)
		}
		out[i] = mw
	}
	return out
}

func TestAccept(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	g := gaddagmaker.BuildGaddag("test", words(dist, "CAT", "CATS", "DOG", "DOGS"))

	cat, _ := dist.StringToLetters("CAT")
	if !g.Accept(cat) {
		t.Fatal("expected CAT to be accepted")
	}
	dog, _ := dist.StringToLetters("DOG")
	if !g.Accept(dog) {
		t.Fatal("expected DOG to be accepted")
	}
	cats, _ := dist.StringToLetters("CATS")
	if !g.Accept(cats) {
		t.Fatal("expected CATS to be accepted")
	}
	ca, _ := dist.StringToLetters("CA")
	if g.Accept(ca) {
		t.Fatal("CA should not be accepted")
	}
	xyz, _ := dist.StringToLetters("XYZ")
	if g.Accept(xyz) {
		t.Fatal("XYZ should not be accepted")
	}
}

func TestInLetterSetAndLetterSet(t *testing.T) {
	dist := tilemapping.EnglishDistribution()
	g := gaddagmaker.BuildGaddag("test", words(dist, "CAT", "CAR", "CAB"))
	tm := dist.TileMapping()
	c, _ := tm.MachineLetterFromRune('C')
	a, _ := tm.MachineLetterFromRune('A')

	// Walk C -> A from root, then the letter set at that node should
	// contain T, R, B (the third letters of CAT/CAR/CAB).
	root := g.Root()
	n1 := g.NextNodeIdx(root, c)
	if n1 == 0 {
		t.Fatal("expected arc for C from root")
	}
	n2 := g.NextNodeIdx(n1, a)
	if n2 == 0 {
		t.Fatal("expected arc for A after C")
	}
	ls := g.LetterSet(n2)
	for _, r := range []rune{'T', 'R', 'B'} {
		ml, _ := tm.MachineLetterFromRune(r)
		if ls&(uint64(1)<<ml) == 0 {
			t.Fatalf("expected %c in letter set after CA", r)
		}
		if !g.InLetterSet(ml, n2) {
			t.Fatalf("expected InLetterSet true for %c", r)
		}
	}
	z, _ := tm.MachineLetterFromRune('Z')
	if g.InLetterSet(z, n2) {
		t.Fatal("Z should not be in letter set after CA")
	}
}
