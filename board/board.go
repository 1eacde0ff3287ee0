// Package board implements the 15x15 (or 21x21 super-variant) game board:
// placed letters, bonus squares, per-square-per-direction cross-sets and
// cross-scores, and anchor flags (spec §3 Board, §4.D).
package board

import (
	"github.com/crosswordlabs/wordcraft/kwg"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// Direction is a play orientation.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// Bonus square multipliers, packed one byte per square: low nibble is the
// letter multiplier, high nibble is the word multiplier. 1 in either
// nibble means "no bonus" in that dimension.
const (
	bonusNone            = 0x11
	bonusDoubleLetter    = 0x12
	bonusTripleLetter    = 0x13
	bonusQuadrupleLetter = 0x14
	bonusDoubleWord      = 0x21
	bonusTripleWord      = 0x31
	bonusQuadrupleWord   = 0x41
)

func bonusFromSymbol(r rune) byte {
	switch r {
	case '\'':
		return bonusDoubleLetter
	case '"':
		return bonusTripleLetter
	case '^':
		return bonusQuadrupleLetter
	case '-':
		return bonusDoubleWord
	case '=':
		return bonusTripleWord
	case '~':
		return bonusQuadrupleWord
	default:
		return bonusNone
	}
}

// LetterMultiplier and WordMultiplier decode a bonus square byte.
func LetterMultiplier(b byte) int { return int(b & 0x0f) }
func WordMultiplier(b byte) int   { return int(b >> 4) }

// GameBoard is a fixed-size crossword board. It is not safe for concurrent
// use; each simulator thread and each generator owns its own board.
type GameBoard struct {
	dim         int
	letters     []tilemapping.MachineLetter
	bonuses     []byte
	crossSets   [][2]uint64
	crossScores [][2]int
	anchors     [][2]bool
	tilesPlayed int
}

// NewBoard builds an empty board from a layout (a slice of dim equal-length
// bonus-symbol rows, see layouts.go).
func NewBoard(layout []string) *GameBoard {
	dim := len(layout)
	b := &GameBoard{
		dim:         dim,
		letters:     make([]tilemapping.MachineLetter, dim*dim),
		bonuses:     make([]byte, dim*dim),
		crossSets:   make([][2]uint64, dim*dim),
		crossScores: make([][2]int, dim*dim),
		anchors:     make([][2]bool, dim*dim),
	}
	for r, row := range layout {
		for c, sym := range row {
			b.bonuses[r*dim+c] = bonusFromSymbol(sym)
		}
	}
	b.Reset()
	return b
}

// Dim returns the board's side length (15 for the classic board).
func (b *GameBoard) Dim() int { return b.dim }

func (b *GameBoard) idx(row, col int) int { return row*b.dim + col }

func (b *GameBoard) posExists(row, col int) bool {
	return row >= 0 && row < b.dim && col >= 0 && col < b.dim
}

// Reset clears the board to empty, recomputes trivial cross-sets, and sets
// anchors to the opening-move state (center square only).
func (b *GameBoard) Reset() {
	b.tilesPlayed = 0
	for i := range b.letters {
		b.letters[i] = tilemapping.PlayedThroughMarker
	}
	for i := range b.crossSets {
		b.crossSets[i] = [2]uint64{TrivialCrossSet, TrivialCrossSet}
		b.crossScores[i] = [2]int{0, 0}
		b.anchors[i] = [2]bool{false, false}
	}
	rc := b.dim / 2
	b.anchors[b.idx(rc, rc)][Horizontal] = true
}

// TrivialCrossSet is the all-letters-allowed mask used when a square has no
// perpendicular neighbor to constrain it.
const TrivialCrossSet = ^uint64(0)

// TilesPlayed returns the number of tiles currently on the board.
func (b *GameBoard) TilesPlayed() int { return b.tilesPlayed }

// SetTilesPlayed overrides the tiles-played counter directly, for a loader
// that places letters with SetLetter rather than PlaceWord (e.g. CGP load,
// which reconstructs a whole board at once rather than one play at a time).
func (b *GameBoard) SetTilesPlayed(n int) { b.tilesPlayed = n }

// Letter returns the machine letter at (row, col); empty squares read 0.
func (b *GameBoard) Letter(row, col int) tilemapping.MachineLetter {
	return b.letters[b.idx(row, col)]
}

// IsEmpty reports whether (row, col) has no tile.
func (b *GameBoard) IsEmpty(row, col int) bool {
	return b.Letter(row, col) == tilemapping.PlayedThroughMarker
}

// SetLetter places ml at (row, col), bypassing tiles-played bookkeeping;
// callers doing a real play should use PlaceWord.
func (b *GameBoard) SetLetter(row, col int, ml tilemapping.MachineLetter) {
	b.letters[b.idx(row, col)] = ml
}

// BonusSquare returns the packed bonus byte at (row, col).
func (b *GameBoard) BonusSquare(row, col int) byte {
	return b.bonuses[b.idx(row, col)]
}

// CrossSet returns the cross-set mask at (row, col) for direction dir.
func (b *GameBoard) CrossSet(row, col int, dir Direction) uint64 {
	return b.crossSets[b.idx(row, col)][dir]
}

func (b *GameBoard) setCrossSet(row, col int, dir Direction, mask uint64) {
	b.crossSets[b.idx(row, col)][dir] = mask
}

// CrossScore returns the cross-score at (row, col) for direction dir.
func (b *GameBoard) CrossScore(row, col int, dir Direction) int {
	return b.crossScores[b.idx(row, col)][dir]
}

func (b *GameBoard) setCrossScore(row, col int, dir Direction, score int) {
	b.crossScores[b.idx(row, col)][dir] = score
}

// Anchor reports whether (row, col) is an anchor for direction dir.
func (b *GameBoard) Anchor(row, col int, dir Direction) bool {
	return b.anchors[b.idx(row, col)][dir]
}

// view presents the board through an explicit direction parameter rather
// than a mutable global transposed flag: a direction's "forward" axis is
// col for Horizontal and row for Vertical, and "perpendicular" is the
// other. Cross-set code is written once against view and
// instantiated for each direction, instead of flipping shared state and
// re-entering shared code (spec §9 design note on the transposition trick).
type view struct {
	b   *GameBoard
	dir Direction
}

func (b *GameBoard) view(dir Direction) view { return view{b: b, dir: dir} }

// UpdateAllAnchors recomputes every anchor flag from the current letters,
// following the original's update_anchors: ported verbatim. On an empty
// board only the center square is an anchor.
func (b *GameBoard) UpdateAllAnchors() {
	if b.tilesPlayed == 0 {
		for i := range b.anchors {
			b.anchors[i] = [2]bool{false, false}
		}
		rc := b.dim / 2
		b.anchors[b.idx(rc, rc)][Horizontal] = true
		return
	}
	for r := 0; r < b.dim; r++ {
		for c := 0; c < b.dim; c++ {
			b.updateAnchorsAt(r, c)
		}
	}
}

func (b *GameBoard) updateAnchorsAt(row, col int) {
	idx := b.idx(row, col)
	b.anchors[idx] = [2]bool{false, false}

	tileAbove := row > 0 && !b.IsEmpty(row-1, col)
	tileBelow := row < b.dim-1 && !b.IsEmpty(row+1, col)
	tileLeft := col > 0 && !b.IsEmpty(row, col-1)
	tileRight := col < b.dim-1 && !b.IsEmpty(row, col+1)
	tileHere := !b.IsEmpty(row, col)

	if tileHere {
		if !tileRight {
			b.anchors[idx][Horizontal] = true
		}
		if !tileBelow {
			b.anchors[idx][Vertical] = true
		}
	} else {
		if !tileLeft && !tileRight && (tileAbove || tileBelow) {
			b.anchors[idx][Horizontal] = true
		}
		if !tileAbove && !tileBelow && (tileLeft || tileRight) {
			b.anchors[idx][Vertical] = true
		}
	}
}

// GenerateCrossSet computes the cross-set and cross-score at (row, col) for
// direction dir: the set of letters that legally close the perpendicular
// word a tile placed there, under a play running along dir, would join
// (spec §4.D, four cases; ported from gen_cross_set).
func (b *GameBoard) GenerateCrossSet(row, col int, dir Direction, g kwg.WordGraph, dist *tilemapping.LetterDistribution) {
	if !b.posExists(row, col) {
		return
	}
	// The perpendicular word runs along the OTHER axis from dir: for a
	// horizontal play the cross word is vertical, so we must inspect
	// row-1/row+1; for a vertical play, col-1/col+1. We realize this by
	// running the original's column-based algorithm against a transposed
	// view when dir is Horizontal.
	perp := Horizontal
	if dir == Horizontal {
		perp = Vertical
	}
	v := b.view(perp)
	along, at := v.coordsOf(row, col)

	if !b.IsEmpty(row, col) {
		b.setCrossSet(row, col, dir, 0)
		b.setCrossScore(row, col, dir, 0)
		return
	}
	if leftAndRightEmptyView(v, along, at) {
		b.setCrossSet(row, col, dir, TrivialCrossSet)
		b.setCrossScore(row, col, dir, 0)
		return
	}

	rightAt := wordEdgeView(v, along, at+1, 1)
	if rightAt == at {
		node, valid := traverseBackwardsView(v, g, along, at-1, g.Root(), false, 0)
		score := traverseBackwardsForScoreView(v, dist, along, at-1)
		b.setCrossScore(row, col, dir, score)
		if !valid {
			b.setCrossSet(row, col, dir, 0)
			return
		}
		sIndex := g.NextNodeIdx(node, tilemapping.SeparationMachineLetter)
		b.setCrossSet(row, col, dir, g.LetterSet(sIndex))
		return
	}

	leftAt := wordEdgeView(v, along, at-1, -1)
	node, valid := traverseBackwardsView(v, g, along, rightAt, g.Root(), false, 0)
	scoreR := traverseBackwardsForScoreView(v, dist, along, rightAt)
	scoreL := traverseBackwardsForScoreView(v, dist, along, at-1)
	b.setCrossScore(row, col, dir, scoreR+scoreL)
	if !valid {
		b.setCrossSet(row, col, dir, 0)
		return
	}
	if leftAt == at {
		b.setCrossSet(row, col, dir, g.LetterSet(node))
		return
	}
	var mask uint64
	g.IterateSiblings(node, func(ml tilemapping.MachineLetter, nextNode uint32) {
		if ml == tilemapping.SeparationMachineLetter {
			return
		}
		_, pathValid := traverseBackwardsView(v, g, along, at-1, nextNode, true, leftAt)
		if pathValid {
			mask |= uint64(1) << ml
		}
	})
	b.setCrossSet(row, col, dir, mask)
}

// The helpers below re-express view-based backward traversal and edge
// finding over (along, at) view coordinates, where "along" is fixed (the
// row index for a Horizontal-perp view, the col index for a
// Vertical-perp view) and "at" is the coordinate that varies.

func (v view) coordsOf(row, col int) (along, at int) {
	if v.dir == Horizontal {
		// perp view iterates columns within a fixed row
		return row, col
	}
	return col, row
}

func realCoords(v view, along, at int) (row, col int) {
	if v.dir == Horizontal {
		return along, at
	}
	return at, along
}

func leftAndRightEmptyView(v view, along, at int) bool {
	for _, next := range []int{at - 1, at + 1} {
		row, col := realCoords(v, along, next)
		if v.b.posExists(row, col) && !v.b.IsEmpty(row, col) {
			return false
		}
	}
	return true
}

func wordEdgeView(v view, along, at, step int) int {
	row, col := realCoords(v, along, at)
	if v.dir == Horizontal {
		for v.b.posExists(row, col) && !v.b.IsEmpty(row, col) {
			col += step
		}
		return col - step
	}
	// Vertical-perp view: "col" in wordEdge terms is our "at" (the real
	// row), scanning with the same step.
	end := wordEdgeVertical(v.b, col, row, step)
	return end
}

func wordEdgeVertical(b *GameBoard, col, row, step int) int {
	for b.posExists(row, col) && !b.IsEmpty(row, col) {
		row += step
	}
	return row - step
}

func traverseBackwardsView(v view, g kwg.WordGraph, along, at int, nodeIndex uint32, checkLetterSet bool, leftMostAt int) (uint32, bool) {
	for {
		row, col := realCoords(v, along, at)
		if !v.b.posExists(row, col) {
			return nodeIndex, true
		}
		ml := v.b.Letter(row, col)
		if ml == tilemapping.PlayedThroughMarker {
			return nodeIndex, true
		}
		if checkLetterSet && at == leftMostAt {
			return nodeIndex, g.InLetterSet(ml, nodeIndex)
		}
		nodeIndex = g.NextNodeIdx(nodeIndex, tilemapping.Unblanked(ml))
		if nodeIndex == 0 {
			return 0, false
		}
		at--
	}
}

func traverseBackwardsForScoreView(v view, dist *tilemapping.LetterDistribution, along, at int) int {
	score := 0
	for {
		row, col := realCoords(v, along, at)
		if !v.b.posExists(row, col) {
			return score
		}
		ml := v.b.Letter(row, col)
		if ml == tilemapping.PlayedThroughMarker {
			return score
		}
		score += dist.Score(ml)
		at--
	}
}

// GenerateAllCrossSets recomputes every cross-set and cross-score on the
// board for both directions. Used on load/reset; incremental play uses
// UpdateCrossSetsForPlacement instead.
func (b *GameBoard) GenerateAllCrossSets(g kwg.WordGraph, dist *tilemapping.LetterDistribution) {
	for r := 0; r < b.dim; r++ {
		for c := 0; c < b.dim; c++ {
			b.GenerateCrossSet(r, c, Horizontal, g, dist)
			b.GenerateCrossSet(r, c, Vertical, g, dist)
		}
	}
}

// UpdateCrossSetsForPlacement recomputes cross-sets and anchors for every
// square that may have lost an empty-neighbor relationship because of
// newly placed tiles at the given (row, col) coordinates: each new tile's
// own square (now occupied, trivially 0/0) plus its four orthogonal
// neighbors, in both directions (spec §4.D "Cross-set update on play").
func (b *GameBoard) UpdateCrossSetsForPlacement(placed [][2]int, g kwg.WordGraph, dist *tilemapping.LetterDistribution) {
	seen := make(map[[2]int]bool)
	touch := func(r, c int) {
		if !b.posExists(r, c) || seen[[2]int{r, c}] {
			return
		}
		seen[[2]int{r, c}] = true
		b.GenerateCrossSet(r, c, Horizontal, g, dist)
		b.GenerateCrossSet(r, c, Vertical, g, dist)
	}
	for _, rc := range placed {
		r, c := rc[0], rc[1]
		touch(r, c)
		touch(r-1, c)
		touch(r+1, c)
		touch(r, c-1)
		touch(r, c+1)
	}
	b.UpdateAllAnchors()
}

// ScoreMove computes the score of a play spelling word[start:end+1] (a
// full footprint strip, PlayedThroughMarker at already-occupied squares)
// starting at (row, col) and running in dir, given tilesPlayed new tiles
// (ported from score_move).
func ScoreMove(b *GameBoard, word tilemapping.MachineWord, start, end, row, col, tilesPlayed int, dir Direction, dist *tilemapping.LetterDistribution) int {
	mainWordScore := 0
	crossScores := 0
	bingoBonus := 0
	if tilesPlayed == 7 {
		bingoBonus = 50
	}
	wordMultiplier := 1
	for i := 0; i <= end-start; i++ {
		ml := word[i+start]
		var r, c int
		if dir == Horizontal {
			r, c = row, col+i
		} else {
			r, c = row+i, col
		}
		bonus := b.BonusSquare(r, c)
		letterMult := 1
		thisWordMult := 1
		freshTile := false
		if ml == tilemapping.PlayedThroughMarker {
			ml = b.Letter(r, c)
		} else {
			freshTile = true
			switch bonus {
			case bonusTripleWord:
				wordMultiplier *= 3
				thisWordMult = 3
			case bonusDoubleWord:
				wordMultiplier *= 2
				thisWordMult = 2
			case bonusQuadrupleWord:
				wordMultiplier *= 4
				thisWordMult = 4
			case bonusDoubleLetter:
				letterMult = 2
			case bonusTripleLetter:
				letterMult = 3
			case bonusQuadrupleLetter:
				letterMult = 4
			}
		}
		cs := b.CrossScore(r, c, dir)
		var ls int
		if tilemapping.IsBlanked(ml) {
			ls = 0
		} else {
			ls = dist.Score(ml)
		}
		mainWordScore += ls * letterMult

		var hasPerp bool
		if dir == Horizontal {
			hasPerp = (r > 0 && !b.IsEmpty(r-1, c)) || (r < b.dim-1 && !b.IsEmpty(r+1, c))
		} else {
			hasPerp = (c > 0 && !b.IsEmpty(r, c-1)) || (c < b.dim-1 && !b.IsEmpty(r, c+1))
		}
		if freshTile && hasPerp {
			crossScores += ls*letterMult*thisWordMult + cs*thisWordMult
		}
	}
	return mainWordScore*wordMultiplier + crossScores + bingoBonus
}

// PlaceWord writes word[start:end+1] onto the board starting at (row,col)
// along dir, skipping PlayedThroughMarker positions (already-occupied
// squares), and returns the (row,col) coordinates of every newly placed
// square, in order, for use by UpdateCrossSetsForPlacement.
func (b *GameBoard) PlaceWord(word tilemapping.MachineWord, start, end, row, col int, dir Direction) [][2]int {
	var placed [][2]int
	for i := 0; i <= end-start; i++ {
		ml := word[i+start]
		if ml == tilemapping.PlayedThroughMarker {
			continue
		}
		var r, c int
		if dir == Horizontal {
			r, c = row, col+i
		} else {
			r, c = row+i, col
		}
		b.SetLetter(r, c, ml)
		placed = append(placed, [2]int{r, c})
	}
	b.tilesPlayed += len(placed)
	return placed
}

// RemoveWord clears the squares at the given coordinates (e.g. to undo a
// PlaceWord) and decrements tilesPlayed.
func (b *GameBoard) RemoveWord(placed [][2]int) {
	for _, rc := range placed {
		b.SetLetter(rc[0], rc[1], tilemapping.PlayedThroughMarker)
	}
	b.tilesPlayed -= len(placed)
}

// Snapshot is an immutable copy of board state, used for O(1) backup and
// restore around a single rollback (spec §5 "exactly one backup slot").
type Snapshot struct {
	letters     []tilemapping.MachineLetter
	crossSets   [][2]uint64
	crossScores [][2]int
	anchors     [][2]bool
	tilesPlayed int
}

// Clone returns an independent board with the same bonuses and current
// state, for handing each simulator worker its own board instance (spec
// §5: "the board ... inside a generator are all per-thread").
func (b *GameBoard) Clone() *GameBoard {
	clone := &GameBoard{
		dim:         b.dim,
		letters:     append([]tilemapping.MachineLetter(nil), b.letters...),
		bonuses:     append([]byte(nil), b.bonuses...),
		crossSets:   append([][2]uint64(nil), b.crossSets...),
		crossScores: append([][2]int(nil), b.crossScores...),
		anchors:     append([][2]bool(nil), b.anchors...),
		tilesPlayed: b.tilesPlayed,
	}
	return clone
}

// Backup captures the board's full state.
func (b *GameBoard) Backup() *Snapshot {
	return &Snapshot{
		letters:     append([]tilemapping.MachineLetter(nil), b.letters...),
		crossSets:   append([][2]uint64(nil), b.crossSets...),
		crossScores: append([][2]int(nil), b.crossScores...),
		anchors:     append([][2]bool(nil), b.anchors...),
		tilesPlayed: b.tilesPlayed,
	}
}

// Restore overwrites the board's state with a prior Backup, without
// reallocating the board itself.
func (b *GameBoard) Restore(s *Snapshot) {
	copy(b.letters, s.letters)
	copy(b.crossSets, s.crossSets)
	copy(b.crossScores, s.crossScores)
	copy(b.anchors, s.anchors)
	b.tilesPlayed = s.tilesPlayed
}
