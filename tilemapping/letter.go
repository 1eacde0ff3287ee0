// Package tilemapping defines the machine-letter representation shared by
// every other package in this module: the small integer alphabet used to
// index racks, bags, board squares and word-graph nodes.
package tilemapping

import "fmt"

// MachineLetter is a small integer identifier for one tile. 0 is both the
// empty-square marker on a board and the blank tile inside a bag.
type MachineLetter uint8

// BlankMask is the high bit that marks a board tile as a designated blank:
// the letter it plays as lives in the low bits, and the mark means "this
// tile scores zero".
const BlankMask MachineLetter = 0x80

// MaxAlphabetSize bounds the number of distinct (non-blank) letters a
// lexicon's alphabet may define. It must stay well under BlankMask so that
// blanked/unblanked letters never collide with a second alphabet's range.
const MaxAlphabetSize = 64

// PlayedThroughMarker is the sentinel value `Move.Tiles` uses at a position
// whose square was already occupied before this play: "do not place here".
const PlayedThroughMarker MachineLetter = 0

// SeparationMachineLetter marks the GADDAG pivot in a reversed-prefix
// traversal. It is conventionally 0 in the node-index sense, distinct from
// any real letter because real letters are only ever looked up starting at
// 1 inside a sibling list that begins after the separation arc.
const SeparationMachineLetter MachineLetter = 0

// Blanked sets the blank mark on ml, recording that a blank has been
// designated to play as this letter.
func Blanked(ml MachineLetter) MachineLetter {
	return ml | BlankMask
}

// Unblanked strips the blank mark, returning the underlying letter value.
func Unblanked(ml MachineLetter) MachineLetter {
	return ml &^ BlankMask
}

// IsBlanked reports whether ml carries the blank mark.
func IsBlanked(ml MachineLetter) bool {
	return ml&BlankMask != 0
}

// MachineWord is a sequence of machine letters, e.g. the tiles spanning a
// play's footprint or the contents of a leave.
type MachineWord []MachineLetter

// UserVisible renders a MachineWord as a human-readable string using the
// given TileMapping. Played-through squares are not valid input here; callers
// that need to render a strip with played-through gaps should handle that
// separately.
func (mw MachineWord) UserVisible(tm *TileMapping) string {
	s := ""
	for _, ml := range mw {
		s += tm.Letter(ml)
	}
	return s
}

func (ml MachineLetter) String() string {
	return fmt.Sprintf("MachineLetter(%d)", uint8(ml))
}
