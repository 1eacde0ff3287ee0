package movegen

import (
	"sort"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// anchorCandidate is one entry of the shadow pass's output: an anchor
// square plus an admissible upper bound on what a real play there can
// score (spec §3 Anchor list, §4.D anchor rule).
type anchorCandidate struct {
	row, col      int
	dir           board.Direction
	upperBound    int
}

// shadowPass walks left and right from each anchor on b (for direction
// dir) without consulting the word graph, tracking the best score a play
// anchored there could conceivably achieve, then returns the anchors
// sorted by that upper bound descending (spec §4.E Phase 1).
func shadowPass(b *board.GameBoard, dir board.Direction, rack *tilemapping.Rack, dist *tilemapping.LetterDistribution) []anchorCandidate {
	dim := b.Dim()
	var anchors []anchorCandidate
	for row := 0; row < dim; row++ {
		for col := 0; col < dim; col++ {
			if !b.Anchor(row, col, dir) {
				continue
			}
			anchors = append(anchors, anchorCandidate{
				row: row, col: col, dir: dir,
				upperBound: shadowScoreAt(b, row, col, dir, rack, dist),
			})
		}
	}
	sort.SliceStable(anchors, func(i, j int) bool {
		return anchors[i].upperBound > anchors[j].upperBound
	})
	return anchors
}

// bestRackScores returns the rack's tile scores sorted descending,
// treating a blank as a wild 0-cost tile that can stand in for the
// distribution's highest-scoring letter (an admissible, slightly
// generous approximation: it never UNDER-estimates achievable score).
func bestRackScores(rack *tilemapping.Rack, dist *tilemapping.LetterDistribution) []int {
	var scores []int
	for _, ml := range rack.NonzeroLetters() {
		n := rack.Count(ml)
		s := dist.Score(ml)
		if ml == 0 {
			// Blank: scores 0 itself, but stands in for the best letter
			// in the distribution when computing an upper bound.
			s = dist.Score(dist.ScoreOrder()[0])
		}
		for i := 0; i < n; i++ {
			scores = append(scores, s)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(scores)))
	return scores
}

// shadowScoreAt computes an admissible upper bound for a play anchored at
// (row, col) in direction dir: the maximum main-word score achievable by
// placing the rack's highest-scoring tiles into the open squares reachable
// from the anchor, times the best word multiplier encountered, plus the
// maximum cross-score achievable at each square, plus a bingo bonus if the
// whole rack could be placed.
func shadowScoreAt(b *board.GameBoard, row, col int, dir board.Direction, rack *tilemapping.Rack, dist *tilemapping.LetterDistribution) int {
	scores := bestRackScores(rack, dist)
	if len(scores) == 0 {
		return 0
	}
	dim := b.Dim()
	wordMult := 1
	letterTotal := 0
	crossTotal := 0
	used := 0

	step := func(r, c int) bool {
		if used >= len(scores) {
			return false
		}
		if r < 0 || r >= dim || c < 0 || c >= dim {
			return false
		}
		if !b.IsEmpty(r, c) {
			letterTotal += dist.Score(b.Letter(r, c))
			return true
		}
		bonus := b.BonusSquare(r, c)
		lm := board.LetterMultiplier(bonus)
		wm := board.WordMultiplier(bonus)
		if wm > wordMult {
			wordMult = wm
		}
		letterTotal += scores[used] * lm
		crossTotal += b.CrossScore(r, c, dir) * wm
		used++
		return true
	}

	r, c := row, col
	for {
		if dir == board.Horizontal {
			if !step(r, c-1) {
				break
			}
			c--
		} else {
			if !step(r-1, c) {
				break
			}
			r--
		}
	}
	r, c = row, col
	for {
		if dir == board.Horizontal {
			if !step(r, c+1) {
				break
			}
			c++
		} else {
			if !step(r+1, c) {
				break
			}
			r++
		}
	}

	bingo := 0
	if rack.NumTiles() == 7 && used >= 7 {
		bingo = 50
	}
	return letterTotal*wordMult + crossTotal + bingo
}
