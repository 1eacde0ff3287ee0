// Package game ties the board, bag, word graph, and per-player state
// together into a playable position: CGP load/save, move application with
// O(1) backup/restore, and end-of-game detection (spec §4.A Game state,
// §6 CGP, §8 backup/restore round-trip).
package game

import (
	"errors"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/kwg"
	"github.com/crosswordlabs/wordcraft/tilemapping"
	"github.com/crosswordlabs/wordcraft/variant"
)

// MaxScorelessTurns is the number of consecutive scoreless turns (by both
// players combined) after which a game ends regardless of bag state.
const MaxScorelessTurns = 6

// Rules bundles the immutable objects needed to build and play a game: a
// board layout, letter distribution, word graph, and lexicon validator.
// Unlike the teacher's GameRules, this carries no config reference — the
// console/config layer resolves names to these objects before handing them
// here (spec §12: config concerns live in the config package, not in the
// rules that use its output).
type Rules struct {
	boardLayout []string
	boardName   string
	dist        *tilemapping.LetterDistribution
	graph       kwg.WordGraph
	lexicon     Lexicon
	variant     variant.Variant
	bingoBonus  int
}

// Lexicon validates whether a word is acceptable play, independent of the
// word graph's own acceptance test (the two coincide for kwg.Lexicon, but
// kwg.AcceptAll always validates while still using a real graph for
// cross-sets in "cs" mode).
type Lexicon interface {
	IsValid(w tilemapping.MachineWord) bool
	Name() string
}

// NewRules constructs a Rules value from already-resolved components.
func NewRules(boardName string, boardLayout []string, dist *tilemapping.LetterDistribution,
	graph kwg.WordGraph, lex Lexicon, v variant.Variant) (*Rules, error) {
	if boardLayout == nil {
		return nil, errors.New("unsupported board layout")
	}
	return &Rules{
		boardLayout: boardLayout,
		boardName:   boardName,
		dist:        dist,
		graph:       graph,
		lexicon:     lex,
		variant:     v,
		bingoBonus:  v.GetBingoBonus(),
	}, nil
}

func (r *Rules) BoardLayout() []string                        { return r.boardLayout }
func (r *Rules) BoardName() string                             { return r.boardName }
func (r *Rules) LetterDistribution() *tilemapping.LetterDistribution { return r.dist }
func (r *Rules) WordGraph() kwg.WordGraph                      { return r.graph }
func (r *Rules) Lexicon() Lexicon                              { return r.lexicon }
func (r *Rules) Variant() variant.Variant                      { return r.variant }
func (r *Rules) BingoBonus() int                               { return r.bingoBonus }

// NewBoard builds a fresh board matching these rules' layout.
func (r *Rules) NewBoard() *board.GameBoard {
	return board.NewBoard(r.boardLayout)
}
