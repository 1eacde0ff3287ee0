package endgame_test

import (
	"testing"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/endgame"
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

func TestSolveRanksCandidatesAndLeavesGameUnmodified(t *testing.T) {
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
	gm.Player(0).Rack.Set(mw(dist, "CATDOG?"))
	gm.Player(1).Rack.Set(nil)
	gm.Player(1).Rack.Set(mw(dist, "ACTGOD?"))

	beforeP0, beforeP1 := gm.Player(0).Score, gm.Player(1).Score
	beforeBagLen := gm.Bag().TilesRemaining()

	result := endgame.Solve(gm, lv)
	if len(result.Candidates) == 0 {
		t.Fatalf("expected at least one candidate")
	}
	for i := 1; i < len(result.Candidates); i++ {
		if result.Candidates[i-1].SpreadAfterReply < result.Candidates[i].SpreadAfterReply {
			t.Fatalf("candidates not sorted best-first at index %d", i)
		}
	}
	if result.Best() != result.Candidates[0].Move {
		t.Fatalf("Best() should return the top-ranked candidate's move")
	}

	if gm.Player(0).Score != beforeP0 || gm.Player(1).Score != beforeP1 {
		t.Fatalf("Solve must not mutate the game's scores")
	}
	if gm.Bag().TilesRemaining() != beforeBagLen {
		t.Fatalf("Solve must not mutate the game's bag")
	}
}
