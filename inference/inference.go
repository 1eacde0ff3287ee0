// Package inference implements opponent-rack inference: given an observed
// play and its score, it asks, for every candidate hidden rack consistent
// with the bag, whether the move generator would have chosen that play
// from that rack, and accumulates the distribution of leaves for which the
// answer is yes (ported from infer.c).
package inference

import (
	"sort"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/combin"

	"github.com/crosswordlabs/wordcraft/game"
	"github.com/crosswordlabs/wordcraft/klv"
	"github.com/crosswordlabs/wordcraft/move"
	"github.com/crosswordlabs/wordcraft/movegen"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// Status reports why an inference request succeeded, degenerated to a
// trivially known rack, or was refused outright (infer.c's
// INFERENCE_STATUS_* family).
type Status int

const (
	StatusSuccess Status = iota
	StatusRacksNotEmpty
	StatusBagEmpty
	StatusRackOverflow
	StatusTilesNotInBag
	StatusExchangeScoreNotZero
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "SUCCESS"
	case StatusRacksNotEmpty:
		return "RACKS_NOT_EMPTY"
	case StatusBagEmpty:
		return "BAG_EMPTY"
	case StatusRackOverflow:
		return "RACK_OVERFLOW"
	case StatusTilesNotInBag:
		return "TILES_NOT_IN_BAG"
	case StatusExchangeScoreNotZero:
		return "EXCHANGE_SCORE_NOT_ZERO"
	default:
		return "UNKNOWN"
	}
}

// equityEpsilon absorbs float rounding when comparing the observed play's
// equity against the generator's top move for a candidate rack (ported
// from INFERENCE_EQUITY_EPSILON).
const equityEpsilon = 1e-9

// Leave is one candidate hidden-rack completion that survived the
// equity-margin test: the tiles the opponent could have been holding
// besides the ones they played, how many distinct ways the bag could have
// dealt it, and its leave value (spec §12: leave_rack.c-style ranking).
type Leave struct {
	Tiles      tilemapping.MachineWord
	Ways       int
	LeaveValue float64
}

// Result is the accumulated inference over every accepted leave.
type Result struct {
	Status Status

	// TotalPossibleDraws sums Ways across every accepted Leave: the total
	// number of ways the bag could have dealt a rack consistent with the
	// observed play.
	TotalPossibleDraws int

	// Leaves holds one entry per distinct accepted leave, sorted by
	// LeaveValue descending.
	Leaves []Leave

	// LettersIncluded maps a machine letter to the draw-weighted count of
	// accepted leaves containing it (ported from leaves_including_letter).
	LettersIncluded map[tilemapping.MachineLetter]int

	// ImpossibleLetters lists letters the opponent cannot have been
	// holding under any accepted leave.
	ImpossibleLetters []tilemapping.MachineLetter

	// MeanLeaveValue is the draw-weighted mean leave value across every
	// accepted leave.
	MeanLeaveValue float64
}

// Infer evaluates every candidate hidden rack the player on turn could hold
// given that actualTilesPlayed was drawn and played for actualScore, within
// equityMargin of the generator's top play for that rack (spec: "for every
// possible hidden rack, ask whether the generator would pick the observed
// play from this rack, accumulate the distribution of leaves for which the
// answer is yes"). Both racks must be empty on entry: inference reasons
// about an undrawn hand, not a partially known one. isExchange marks
// actualTilesPlayed as an exchange rather than a scored play; an exchange
// can never carry a nonzero score.
func Infer(g *game.Game, lv *klv.KLV, actualTilesPlayed tilemapping.MachineWord, isExchange bool, actualScore int, equityMargin float64) (*Result, error) {
	if !g.Player(0).Rack.Empty() || !g.Player(1).Rack.Empty() {
		return &Result{Status: StatusRacksNotEmpty}, nil
	}
	if isExchange && actualScore != 0 {
		return &Result{Status: StatusExchangeScoreNotZero}, nil
	}

	dist := g.Rules().LetterDistribution()
	alphabetSize := dist.Size() + 1

	if len(actualTilesPlayed) > game.RackSize {
		return &Result{Status: StatusRackOverflow}, nil
	}

	bagCounts := make([]int, alphabetSize)
	for _, ml := range g.Bag().Peek() {
		bagCounts[tilemapping.Unblanked(ml)]++
	}
	playedCounts := make([]int, alphabetSize)
	for _, ml := range actualTilesPlayed {
		u := tilemapping.Unblanked(ml)
		playedCounts[u]++
		if playedCounts[u] > bagCounts[u] {
			return &Result{Status: StatusTilesNotInBag}, nil
		}
	}

	if g.Bag().TilesRemaining()-len(actualTilesPlayed) <= game.RackSize {
		return inferFromRemainingTiles(bagCounts, playedCounts, alphabetSize), nil
	}

	unseen := make([]int, alphabetSize)
	for i := range unseen {
		unseen[i] = bagCounts[i] - playedCounts[i]
	}
	leaveSize := game.RackSize - len(actualTilesPlayed)

	rules := g.Rules()
	gen := movegen.New(g.Board(), rules.WordGraph(), lv, dist, g.Bag())
	oppIdx := 1 - g.OnTurnIndex()
	oppRack := g.Player(oppIdx).Rack

	s := &searcher{
		gen:               gen,
		lv:                lv,
		dist:              dist,
		oppRack:           oppRack,
		actualTilesPlayed: actualTilesPlayed,
		actualScore:       actualScore,
		equityMargin:      equityMargin,
		unseen:            unseen,
		leave:             make([]int, alphabetSize),
		result: &Result{
			Status:          StatusSuccess,
			LettersIncluded: make(map[tilemapping.MachineLetter]int),
		},
	}
	s.search(0, leaveSize)

	finalizeResult(s.result, alphabetSize)
	return s.result, nil
}

// inferFromRemainingTiles handles the degenerate case where too few tiles
// remain in the bag for the opponent's leave to be in doubt: whatever is
// left in the bag after the observed play is the only possible leave
// (ported from set_inference_to_remaining_tiles).
func inferFromRemainingTiles(bagCounts, playedCounts []int, alphabetSize int) *Result {
	r := &Result{
		Status:          StatusBagEmpty,
		LettersIncluded: make(map[tilemapping.MachineLetter]int),
	}
	var tiles tilemapping.MachineWord
	for ml := 0; ml < alphabetSize; ml++ {
		remaining := bagCounts[ml] - playedCounts[ml]
		for i := 0; i < remaining; i++ {
			tiles = append(tiles, tilemapping.MachineLetter(ml))
		}
		if remaining > 0 {
			r.LettersIncluded[tilemapping.MachineLetter(ml)] = 1
		}
	}
	r.TotalPossibleDraws = 1
	r.Leaves = []Leave{{Tiles: tiles, Ways: 1}}
	return r
}

func finalizeResult(r *Result, alphabetSize int) {
	sort.Slice(r.Leaves, func(i, j int) bool {
		return r.Leaves[i].LeaveValue > r.Leaves[j].LeaveValue
	})

	all := make([]tilemapping.MachineLetter, alphabetSize)
	for ml := range all {
		all[ml] = tilemapping.MachineLetter(ml)
	}
	r.ImpossibleLetters = lo.Filter(all, func(ml tilemapping.MachineLetter, _ int) bool {
		return r.LettersIncluded[ml] == 0
	})

	if len(r.Leaves) == 0 {
		return
	}
	values := lo.Map(r.Leaves, func(lv Leave, _ int) float64 { return lv.LeaveValue })
	weights := lo.Map(r.Leaves, func(lv Leave, _ int) float64 { return float64(lv.Ways) })
	r.MeanLeaveValue = stat.Mean(values, weights)
}

// searcher holds the scratch state threaded through the recursive
// candidate-leave walk: which letters remain unseen, the leave built so
// far, and the accumulating result.
type searcher struct {
	gen     *movegen.Generator
	lv      *klv.KLV
	dist    *tilemapping.LetterDistribution
	oppRack *tilemapping.Rack

	actualTilesPlayed tilemapping.MachineWord
	actualScore       int
	equityMargin      float64

	unseen []int
	leave  []int

	result *Result
}

// search enumerates every distinct letter-multiset of size remaining drawn
// from s.unseen, starting no earlier than letter start so that each
// multiset is visited exactly once (a combination, not a permutation: a
// corrected generalization of iterate_through_all_possible_leaves, whose
// current_node_index never advances between recursive calls and so walks
// every ordering of a multiset rather than the multiset itself; see
// DESIGN.md).
func (s *searcher) search(start, remaining int) {
	if remaining == 0 {
		s.evaluate()
		return
	}
	for letter := start; letter < len(s.unseen); letter++ {
		if s.unseen[letter] == 0 {
			continue
		}
		s.unseen[letter]--
		s.leave[letter]++
		s.search(letter, remaining-1)
		s.leave[letter]--
		s.unseen[letter]++
	}
}

// evaluate tests one fully-built candidate leave against the equity-margin
// acceptance test and records it if it passes (ported from
// evaluate_possible_leave / within_equity_margin / record_valid_leave).
func (s *searcher) evaluate() {
	candidateRack := tilemapping.NewRack(s.dist)
	var leaveTiles tilemapping.MachineWord
	for ml, c := range s.leave {
		for i := 0; i < c; i++ {
			candidateRack.Add(tilemapping.MachineLetter(ml))
			leaveTiles = append(leaveTiles, tilemapping.MachineLetter(ml))
		}
	}
	for _, ml := range s.actualTilesPlayed {
		candidateRack.Add(tilemapping.Unblanked(ml))
	}

	list := s.gen.Generate(candidateRack, s.oppRack, true, move.RecordBest)
	top := list.Best()
	if top == nil {
		return
	}

	leaveRack := tilemapping.NewRack(s.dist)
	leaveRack.Set(leaveTiles)
	leaveValue := s.lv.LeaveValue(leaveRack)
	actualEquity := float64(s.actualScore) + leaveValue
	if actualEquity+s.equityMargin+equityEpsilon < top.Equity() {
		return
	}

	ways := waysToDraw(s.unseen, s.leave)
	s.result.TotalPossibleDraws += ways
	s.result.Leaves = append(s.result.Leaves, Leave{
		Tiles:      append(tilemapping.MachineWord(nil), leaveTiles...),
		Ways:       ways,
		LeaveValue: leaveValue,
	})
	for ml, c := range s.leave {
		if c > 0 {
			s.result.LettersIncluded[tilemapping.MachineLetter(ml)] += ways
		}
	}
}

// waysToDraw computes the number of distinct orderings the bag could have
// dealt this leave in, as a product of per-letter binomial coefficients
// (ported from compute_number_of_ways_to_draw_leave: choose(available,
// taken) per letter actually in the leave).
func waysToDraw(unseen, leave []int) int {
	ways := 1
	for ml, taken := range leave {
		if taken == 0 {
			continue
		}
		available := unseen[ml] + taken
		ways *= int(combin.Binomial(available, taken) + 0.5)
	}
	return ways
}
