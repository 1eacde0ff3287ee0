package inference_test

import (
	"testing"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/gaddagmaker"
	"github.com/crosswordlabs/wordcraft/game"
	"github.com/crosswordlabs/wordcraft/inference"
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

func setup(t *testing.T) (*game.Game, *klv.KLV) {
	t.Helper()
	dist := tilemapping.EnglishDistribution()
	g := gaddagmaker.BuildGaddag("test", words(dist, "CAT", "CATS", "AT", "ACT", "TA", "DOG", "DO", "OD", "GO"))
	rules, err := game.NewRules(board.CrosswordGameLayout, board.CrosswordGameBoard, dist,
		g, &kwg.Lexicon{KWG: g}, variant.VarClassic)
	if err != nil {
		t.Fatalf("NewRules: %v", err)
	}
	lv := klv.Build("test", nil)
	bag := tilemapping.NewBag(dist, nil)
	gm := game.NewGame(rules, bag, "p1", "p2")
	gm.Player(0).Rack.Set(nil)
	gm.Player(1).Rack.Set(nil)
	return gm, lv
}

func TestInferRefusesWhenRackNotEmpty(t *testing.T) {
	gm, lv := setup(t)
	gm.Player(0).Rack.Add(0)

	res, err := inference.Infer(gm, lv, mw(gm.Rules().LetterDistribution(), "CAT"), false, 10, 0)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if res.Status != inference.StatusRacksNotEmpty {
		t.Fatalf("status = %v, want RACKS_NOT_EMPTY", res.Status)
	}
}

func TestInferRefusesExchangeWithNonzeroScore(t *testing.T) {
	gm, lv := setup(t)
	res, err := inference.Infer(gm, lv, mw(gm.Rules().LetterDistribution(), "CAT"), true, 5, 0)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if res.Status != inference.StatusExchangeScoreNotZero {
		t.Fatalf("status = %v, want EXCHANGE_SCORE_NOT_ZERO", res.Status)
	}
}

func TestInferRefusesTilesNotInBag(t *testing.T) {
	gm, lv := setup(t)
	dist := gm.Rules().LetterDistribution()
	// Drain the bag of every A, then claim a play used three As.
	for {
		removed := false
		for _, ml := range gm.Bag().Peek() {
			if dist.LetterToString(ml) == "A" {
				_ = gm.Bag().RemoveTiles([]tilemapping.MachineLetter{ml})
				removed = true
				break
			}
		}
		if !removed {
			break
		}
	}

	res, err := inference.Infer(gm, lv, mw(dist, "AAA"), false, 10, 0)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if res.Status != inference.StatusTilesNotInBag {
		t.Fatalf("status = %v, want TILES_NOT_IN_BAG", res.Status)
	}
}

func TestInferAccumulatesLeavesWithinMargin(t *testing.T) {
	gm, lv := setup(t)
	dist := gm.Rules().LetterDistribution()

	// CAT played for some score; equity margin wide enough that every
	// legally completable rack should be accepted, so every leave's
	// draw count should sum into TotalPossibleDraws and every letter
	// still in the bag should show up in LettersIncluded.
	res, err := inference.Infer(gm, lv, mw(dist, "CAT"), false, 6, 1000)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if res.Status != inference.StatusSuccess {
		t.Fatalf("status = %v, want SUCCESS", res.Status)
	}
	if len(res.Leaves) == 0 {
		t.Fatalf("expected at least one accepted leave")
	}
	sum := 0
	for _, lv := range res.Leaves {
		sum += lv.Ways
	}
	if sum != res.TotalPossibleDraws {
		t.Fatalf("TotalPossibleDraws = %d, want sum of leaf ways %d", res.TotalPossibleDraws, sum)
	}
	// Leaves must be sorted by value, descending.
	for i := 1; i < len(res.Leaves); i++ {
		if res.Leaves[i-1].LeaveValue < res.Leaves[i].LeaveValue {
			t.Fatalf("leaves not sorted descending by value at index %d", i)
		}
	}
}

func TestInferDegeneratesWhenBagNearlyEmpty(t *testing.T) {
	gm, lv := setup(t)

	// Drain the bag down to exactly RackSize tiles.
	for gm.Bag().TilesRemaining() > game.RackSize {
		if _, err := gm.Bag().Draw(1); err != nil {
			t.Fatalf("Draw: %v", err)
		}
	}
	actualTilesPlayed := tilemapping.MachineWord{tilemapping.Unblanked(gm.Bag().Peek()[0])}

	res, err := inference.Infer(gm, lv, actualTilesPlayed, false, 1, 0)
	if err != nil {
		t.Fatalf("Infer: %v", err)
	}
	if res.Status != inference.StatusBagEmpty {
		t.Fatalf("status = %v, want BAG_EMPTY", res.Status)
	}
	if res.TotalPossibleDraws != 1 || len(res.Leaves) != 1 {
		t.Fatalf("degenerate result should report exactly one deterministic leave, got %+v", res)
	}
}
