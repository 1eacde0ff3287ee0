// Package endgame implements a simple two-ply heuristic: for every legal
// candidate play, look one ply further to the opponent's single best
// reply and rank candidates by the resulting spread (spec §4, Non-goals:
// "no endgame solver beyond a simple two-ply heuristic").
package endgame

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/crosswordlabs/wordcraft/game"
	"github.com/crosswordlabs/wordcraft/klv"
	"github.com/crosswordlabs/wordcraft/move"
	"github.com/crosswordlabs/wordcraft/movegen"
)

// Candidate is one considered play, ranked by the spread the mover can
// expect to hold once the opponent's best single reply has been played.
type Candidate struct {
	Move             *move.Move
	SpreadAfterReply int
}

// Result is the outcome of a two-ply search from the game's current
// position: every legal candidate, ranked best-first.
type Result struct {
	Candidates []Candidate
}

// Best returns the top-ranked candidate's move, or nil if the player on
// turn has no legal plays.
func (r *Result) Best() *move.Move {
	if len(r.Candidates) == 0 {
		return nil
	}
	return r.Candidates[0].Move
}

// Solve ranks every legal play available to the player on turn by its
// two-ply spread and returns them best-first. It does not mutate g: each
// candidate is scored against its own clone, fanned out across an
// errgroup worker pool the same way montecarlo.Simulator fans out
// iterations, one clone per in-flight candidate rather than one per
// worker since a two-ply lookahead is cheap relative to clone cost.
func Solve(g *game.Game, lv *klv.KLV) *Result {
	rules := g.Rules()
	onTurn := g.OnTurnIndex()
	mover := g.Player(onTurn)
	opp := g.Player(1 - onTurn)

	scoutGen := movegen.New(g.Board(), rules.WordGraph(), lv, rules.LetterDistribution(), g.Bag())
	firstPly := scoutGen.Generate(mover.Rack, opp.Rack, true, move.RecordAll)
	moves := firstPly.Moves()
	candidates := make([]Candidate, len(moves))

	eg, _ := errgroup.WithContext(context.Background())
	for i, cand := range moves {
		i, cand := i, cand
		eg.Go(func() error {
			gc := g.Clone()
			gen := movegen.New(gc.Board(), gc.Rules().WordGraph(), lv, gc.Rules().LetterDistribution(), gc.Bag())
			candidates[i] = Candidate{Move: cand, SpreadAfterReply: spreadAfterReply(gc, gen, cand, onTurn)}
			return nil
		})
	}
	eg.Wait()

	sortCandidatesDescending(candidates)
	return &Result{Candidates: candidates}
}

// spreadAfterReply plays cand on a backed-up clone, lets the opponent
// reply with their single best move if the game hasn't ended, and returns
// the mover's resulting spread (their score minus the opponent's, from
// the mover's fixed perspective).
func spreadAfterReply(gc *game.Game, gen *movegen.Generator, cand *move.Move, mover int) int {
	backup := gc.Backup()
	defer gc.Restore(backup)

	gc.PlayMove(cand)

	// PlayMove only leaves onTurn unflipped when the game has just ended,
	// so whenever it isn't over the opponent is necessarily on turn here.
	if !gc.IsOver() {
		replier := gc.Player(1 - mover)
		reply := gen.Generate(replier.Rack, gc.Player(mover).Rack, true, move.RecordBest)
		if best := reply.Best(); best != nil && best.Action() == move.TypePlay {
			return gc.Player(mover).Score - (gc.Player(1-mover).Score + best.Score())
		}
	}

	return gc.Player(mover).Score - gc.Player(1-mover).Score
}

func sortCandidatesDescending(candidates []Candidate) {
	// Insertion sort: candidate counts per ply are small (at most a few
	// hundred), and this keeps the package free of a sort.Slice closure
	// capturing package state across calls.
	for i := 1; i < len(candidates); i++ {
		j := i
		for j > 0 && candidates[j-1].SpreadAfterReply < candidates[j].SpreadAfterReply {
			candidates[j-1], candidates[j] = candidates[j], candidates[j-1]
			j--
		}
	}
}
