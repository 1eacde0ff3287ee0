// Package movegen implements the anchor-driven, bidirectional GADDAG move
// generator: shadow-pass anchor pruning followed by recursive enumeration,
// equity scoring, and exchange enumeration (spec §4.E).
package movegen

import (
	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/klv"
	"github.com/crosswordlabs/wordcraft/kwg"
	"github.com/crosswordlabs/wordcraft/move"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// RackSize is the standard number of tiles a rack holds.
const RackSize = 7

// PegTableLen is the length of the pre-endgame adjustment table.
const PegTableLen = 13

// QuackleAdjustmentValues is the hand-tuned pre-endgame bonus/penalty table
// ported from the reference engine's Quackle-derived profile, indexed by
// bag_remaining + rack_size - tiles_played.
var QuackleAdjustmentValues = [PegTableLen]float64{
	0, -8, 0, -0.5, -2, -3.5, -2, 2, 10, 7, 4, -1, -2,
}

// ZeroAdjustmentValues is the default, inert pre-endgame table.
var ZeroAdjustmentValues = [PegTableLen]float64{}

// openingHotspotPenalty is applied once per vowel landing on an opening
// hotspot column.
const openingHotspotPenalty = -0.7

var openingHotspotCols = map[int]bool{2: true, 6: true, 8: true, 12: true}

// Generator holds the scratch state for one call to Generate. It is not
// safe for concurrent use; the simulator gives each worker its own
// Generator (spec §4.F).
type Generator struct {
	board *board.GameBoard
	graph kwg.WordGraph
	lv    *klv.KLV
	dist  *tilemapping.LetterDistribution
	bag   *tilemapping.Bag

	preendgame [PegTableLen]float64

	// per-generation scratch, reset at the top of Generate.
	vertical          bool
	currentRow        int
	currentAnchorCol  int
	lastAnchorCol     int
	tilesPlayed       int
	strip             []tilemapping.MachineLetter
	exchangeStrip     []tilemapping.MachineLetter
	list              *move.List
}

// New constructs a Generator bound to a board, word graph, leave valuator,
// and letter distribution. bag may be nil, in which case exchange
// generation and the pre-endgame/endgame equity adjustments treat the bag
// as empty (endgame mode).
func New(b *board.GameBoard, g kwg.WordGraph, lv *klv.KLV, dist *tilemapping.LetterDistribution, bag *tilemapping.Bag) *Generator {
	return &Generator{
		board:      b,
		graph:      g,
		lv:         lv,
		dist:       dist,
		bag:        bag,
		preendgame: ZeroAdjustmentValues,
	}
}

// SetPreendgameAdjustments installs a pre-endgame adjustment table (e.g.
// QuackleAdjustmentValues) in place of the default all-zero table.
func (gen *Generator) SetPreendgameAdjustments(values [PegTableLen]float64) {
	gen.preendgame = values
}

// Generate populates a move list for rack against the current board state.
// recordMode selects RECORD_ALL (sorted by equity descending) or
// RECORD_BEST (single highest-equity play kept). oppRack may be nil; it is
// only consulted for the endgame equity adjustment.
func (gen *Generator) Generate(rack, oppRack *tilemapping.Rack, includeExchanges bool, recordMode move.RecordMode) *move.List {
	gen.list = move.NewList(recordMode)
	gen.strip = make([]tilemapping.MachineLetter, gen.board.Dim())
	gen.exchangeStrip = make([]tilemapping.MachineLetter, 0, rack.NumTiles())

	var lm *leaveMap
	if !hasDuplicateLetters(rack) {
		lm = newLeaveMap(rack, gen.lv, gen.dist)
	}

	for dirIdx := 0; dirIdx < 2; dirIdx++ {
		gen.vertical = dirIdx%2 != 0
		dir := board.Horizontal
		if gen.vertical {
			dir = board.Vertical
		}
		gen.genByOrientation(dir, rack, oppRack, lm)
	}

	if includeExchanges && gen.bag != nil && gen.bag.TilesRemaining() >= RackSize {
		gen.tilesPlayed = 0
		gen.generateExchangeMoves(rack, oppRack, 0)
	}

	if recordMode == move.RecordAll || gen.list.Best() == nil || gen.list.Best().Equity() < move.PassEquity {
		gen.list.Add(move.NewPass(rackLeave(rack)))
	}

	gen.list.Sort()
	return gen.list
}

func hasDuplicateLetters(rack *tilemapping.Rack) bool {
	for _, ml := range rack.NonzeroLetters() {
		if rack.Count(ml) > 1 {
			return true
		}
	}
	return false
}

func rackLeave(rack *tilemapping.Rack) tilemapping.MachineWord {
	return rack.TilesOn()
}

// genByOrientation runs the shadow pass for dir, then walks every anchor in
// descending upper-bound order, running the recursive bidirectional
// enumeration from each (spec §4.E Phase 1 + Phase 2). Anchors are visited
// in upper-bound order rather than the board's natural row/column order, so
// a play spanning two anchors in the same row can be discovered twice; the
// move list dedups by UniqueKey rather than relying on visitation order.
func (gen *Generator) genByOrientation(dir board.Direction, rack, oppRack *tilemapping.Rack, lm *leaveMap) {
	gen.vertical = dir == board.Vertical
	anchors := shadowPass(gen.board, dir, rack, gen.dist)
	dim := gen.board.Dim()

	for _, a := range anchors {
		var fixedRow, startCol int
		if gen.vertical {
			fixedRow, startCol = a.col, a.row
		} else {
			fixedRow, startCol = a.row, a.col
		}
		gen.currentRow = fixedRow
		gen.lastAnchorCol = dim
		gen.currentAnchorCol = startCol
		gen.tilesPlayed = 0
		uniquePlay := !gen.vertical
		gen.recursiveGen(startCol, rack, oppRack, gen.graph.Root(), startCol, startCol, uniquePlay, lm, gen.fullLeaveMask(rack, lm))
	}
}

func (gen *Generator) fullLeaveMask(rack *tilemapping.Rack, lm *leaveMap) int {
	if lm == nil {
		return 0
	}
	return lm.fullMask()
}

// realRC translates the algorithm's (fixed row, varying col) coordinates
// into real board coordinates: when generating vertically, the algorithm's
// fixed axis is actually a board column and its varying axis a board row.
func (gen *Generator) realRC(algCol int) (row, col int) {
	if gen.vertical {
		return algCol, gen.currentRow
	}
	return gen.currentRow, algCol
}

// recursiveGen mirrors recursive_gen from the reference engine: at an empty
// square it tries every cross-set-admissible rack letter (and every
// cross-set-admissible blank designation); at an occupied square it follows
// the single forced arc for the tile already there.
func (gen *Generator) recursiveGen(col int, rack, oppRack *tilemapping.Rack, nodeIndex uint32, leftstrip, rightstrip int, uniquePlay bool, lm *leaveMap, mask int) {
	r, c := gen.realRC(col)
	currentLetter := gen.board.Letter(r, c)
	crossSet := gen.board.CrossSet(r, c, boolToDir(gen.vertical))

	if !gen.board.IsEmpty(r, c) {
		next := gen.graph.NextNodeIdx(nodeIndex, tilemapping.Unblanked(currentLetter))
		gen.goOn(col, currentLetter, rack, oppRack, next, nodeIndex, leftstrip, rightstrip, uniquePlay, lm, mask)
		return
	}
	if rack.Empty() {
		return
	}
	for _, ml := range rack.NonzeroLetters() {
		if ml == 0 {
			continue
		}
		if crossSet&(uint64(1)<<ml) == 0 {
			continue
		}
		next := gen.graph.NextNodeIdx(nodeIndex, ml)
		rack.Take(ml)
		gen.tilesPlayed++
		gen.goOn(col, ml, rack, oppRack, next, nodeIndex, leftstrip, rightstrip, uniquePlay, lm, clearBit(lm, mask, ml))
		rack.Add(ml)
		gen.tilesPlayed--
	}
	if rack.Count(0) > 0 {
		for i := tilemapping.MachineLetter(1); int(i) <= gen.dist.Size(); i++ {
			if crossSet&(uint64(1)<<i) == 0 {
				continue
			}
			next := gen.graph.NextNodeIdx(nodeIndex, i)
			rack.Take(0)
			gen.tilesPlayed++
			gen.goOn(col, tilemapping.Blanked(i), rack, oppRack, next, nodeIndex, leftstrip, rightstrip, uniquePlay, lm, clearBit(lm, mask, 0))
			rack.Add(0)
			gen.tilesPlayed--
		}
	}
}

func clearBit(lm *leaveMap, mask int, ml tilemapping.MachineLetter) int {
	if lm == nil {
		return mask
	}
	b := lm.bitFor(ml)
	if b < 0 {
		return mask
	}
	return mask &^ (1 << uint(b))
}

// goOn mirrors go_on: it writes the letter at current_col into the strip,
// checks whether the path so far closes a legal word, then recurses either
// leftward (while still left of the anchor) or rightward (once past it),
// including the jump across the GADDAG separator arc back out to
// anchor+1 when the left half is complete.
func (gen *Generator) goOn(currentCol int, L tilemapping.MachineLetter, rack, oppRack *tilemapping.Rack, newNodeIndex, oldNodeIndex uint32, leftstrip, rightstrip int, uniquePlay bool, lm *leaveMap, mask int) {
	dim := gen.board.Dim()
	r, c := gen.realRC(currentCol)
	if currentCol <= gen.currentAnchorCol {
		if !gen.board.IsEmpty(r, c) {
			gen.strip[currentCol] = tilemapping.PlayedThroughMarker
		} else {
			gen.strip[currentCol] = L
			if gen.vertical && gen.board.CrossSet(r, c, board.Vertical) == board.TrivialCrossSet {
				uniquePlay = true
			}
		}
		leftstrip = currentCol
		noLetterDirectlyLeft := currentCol == 0
		if !noLetterDirectlyLeft {
			rLeft, cLeft := gen.realRC(currentCol - 1)
			noLetterDirectlyLeft = gen.board.IsEmpty(rLeft, cLeft)
		}

		if gen.graph.InLetterSet(L, oldNodeIndex) && noLetterDirectlyLeft && gen.tilesPlayed > 0 {
			if uniquePlay || gen.tilesPlayed > 1 {
				gen.recordPlay(rack, oppRack, leftstrip, rightstrip, move.TypePlay, lm, mask)
			}
		}

		if newNodeIndex == 0 {
			return
		}
		if currentCol > 0 && currentCol-1 != gen.lastAnchorCol {
			gen.recursiveGen(currentCol-1, rack, oppRack, newNodeIndex, leftstrip, rightstrip, uniquePlay, lm, mask)
		}
		sepNode := gen.graph.NextNodeIdx(newNodeIndex, tilemapping.SeparationMachineLetter)
		if sepNode != 0 && noLetterDirectlyLeft && gen.currentAnchorCol < dim-1 {
			gen.recursiveGen(gen.currentAnchorCol+1, rack, oppRack, sepNode, leftstrip, rightstrip, uniquePlay, lm, mask)
		}
		return
	}

	if !gen.board.IsEmpty(r, c) {
		gen.strip[currentCol] = tilemapping.PlayedThroughMarker
	} else {
		gen.strip[currentCol] = L
		if gen.vertical && gen.board.CrossSet(r, c, board.Vertical) == board.TrivialCrossSet {
			uniquePlay = true
		}
	}
	rightstrip = currentCol
	noLetterDirectlyRight := currentCol == dim-1
	if !noLetterDirectlyRight {
		rRight, cRight := gen.realRC(currentCol + 1)
		noLetterDirectlyRight = gen.board.IsEmpty(rRight, cRight)
	}

	if gen.graph.InLetterSet(L, oldNodeIndex) && noLetterDirectlyRight && gen.tilesPlayed > 0 {
		if uniquePlay || gen.tilesPlayed > 1 {
			gen.recordPlay(rack, oppRack, leftstrip, rightstrip, move.TypePlay, lm, mask)
		}
	}
	if newNodeIndex != 0 && currentCol < dim-1 {
		gen.recursiveGen(currentCol+1, rack, oppRack, newNodeIndex, leftstrip, rightstrip, uniquePlay, lm, mask)
	}
}

// recordPlay builds a PLAY Move from the current strip and records it,
// computing its score and its equity. Exchanges go through recordExchange.
func (gen *Generator) recordPlay(rack, oppRack *tilemapping.Rack, leftstrip, rightstrip int, moveType move.Type, lm *leaveMap, mask int) {
	startRow := gen.currentRow
	tilesPlayed := gen.tilesPlayed
	startCol := leftstrip
	row, col := startRow, startCol
	if gen.vertical {
		row, col = col, row
	}

	word := make(tilemapping.MachineWord, rightstrip-leftstrip+1)
	copy(word, gen.strip[leftstrip:rightstrip+1])

	score := board.ScoreMove(gen.board, word, 0, len(word)-1, row, col, tilesPlayed, boolToDir(gen.vertical), gen.dist)

	leaveWord := gen.currentLeave(rack)
	m := move.NewPlay(score, word, leaveWord, gen.vertical, tilesPlayed, row, col)

	var leaveValue float64
	if lm != nil {
		leaveValue = lm.valueAt(mask)
	} else {
		leaveValue = gen.lv.LeaveValue(rack)
	}
	m.SetEquity(gen.equity(rack, oppRack, m, score, leaveValue))
	gen.list.Add(m)
}

func boolToDir(vertical bool) board.Direction {
	if vertical {
		return board.Vertical
	}
	return board.Horizontal
}

func (gen *Generator) currentLeave(rack *tilemapping.Rack) tilemapping.MachineWord {
	return rackLeave(rack)
}

// equity implements get_move_equity: score plus leave value plus whichever
// context adjustment applies (opening placement penalty, pre-endgame table,
// or endgame heuristic).
func (gen *Generator) equity(rack, oppRack *tilemapping.Rack, m *move.Move, score int, leaveValue float64) float64 {
	var otherAdjustments float64

	if gen.board.TilesPlayed() == 0 && m.Action() == move.TypePlay {
		otherAdjustments += gen.placementAdjustment(m)
	}

	if gen.bag != nil && gen.bag.TilesRemaining() > 0 {
		bagPlusRack := gen.bag.TilesRemaining() - m.TilesPlayed() + RackSize
		if bagPlusRack >= 0 && bagPlusRack < PegTableLen {
			otherAdjustments += gen.preendgame[bagPlusRack]
		}
	} else {
		otherAdjustments += gen.endgameAdjustment(rack, oppRack)
	}

	return float64(score) + leaveValue + otherAdjustments
}

// placementAdjustment penalizes an opening play for landing a vowel on a
// hotspot column (spec §4.E, defensive opening heuristic). A vertical play
// covers a single, fixed column, so every vowel it places is checked
// against that same column.
func (gen *Generator) placementAdjustment(m *move.Move) float64 {
	var penalty float64
	tiles := m.Tiles()
	for i, ml := range tiles {
		col := m.ColStart()
		if m.Vertical() {
			// column is fixed; nothing to add
		} else {
			col += i
		}
		if openingHotspotCols[col] && ml != 0 && gen.dist.IsVowel(ml) {
			penalty += openingHotspotPenalty
		}
	}
	return penalty
}

// endgameAdjustment implements the bag-empty heuristic: a play that doesn't
// empty the rack is penalized by twice its own remaining rack score plus a
// constant; a play that does go out is rewarded by twice the opponent's
// stranded rack score.
func (gen *Generator) endgameAdjustment(rack, oppRack *tilemapping.Rack) float64 {
	if !rack.Empty() {
		return -2*float64(rack.ScoreOnRack()) - 10
	}
	if oppRack == nil {
		return 0
	}
	return 2 * float64(oppRack.ScoreOnRack())
}

// generateExchangeMoves mirrors generate_exchange_moves: a recursive
// take/restore walk over the rack's distinct letters, recording one
// exchange move per non-empty subset.
func (gen *Generator) generateExchangeMoves(rack, oppRack *tilemapping.Rack, ml tilemapping.MachineLetter) {
	for int(ml) <= gen.dist.Size() && rack.Count(ml) == 0 {
		ml++
	}
	if int(ml) > gen.dist.Size() {
		if len(gen.exchangeStrip) > 0 {
			gen.recordExchange(rack, oppRack)
		}
		return
	}
	gen.generateExchangeMoves(rack, oppRack, ml+1)
	n := rack.Count(ml)
	for i := 0; i < n; i++ {
		gen.exchangeStrip = append(gen.exchangeStrip, ml)
		rack.Take(ml)
		gen.generateExchangeMoves(rack, oppRack, ml+1)
	}
	for i := 0; i < n; i++ {
		rack.Add(ml)
		gen.exchangeStrip = gen.exchangeStrip[:len(gen.exchangeStrip)-1]
	}
}

func (gen *Generator) recordExchange(rack, oppRack *tilemapping.Rack) {
	tiles := make(tilemapping.MachineWord, len(gen.exchangeStrip))
	copy(tiles, gen.exchangeStrip)
	leave := rackLeave(rack)
	m := move.NewExchange(tiles, leave)
	leaveValue := gen.lv.LeaveValue(rack)
	m.SetEquity(gen.equity(rack, oppRack, m, 0, leaveValue))
	gen.list.Add(m)
}
