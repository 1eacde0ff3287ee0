package kwg

import "github.com/crosswordlabs/wordcraft/tilemapping"

// WordGraph is the interface the move generator and cross-set generator
// consume. KWG satisfies it directly; tests sometimes substitute a tiny
// in-memory fake built by hand instead of a full lexicon.
type WordGraph interface {
	Root() uint32
	NextNodeIdx(nodeIdx uint32, letter tilemapping.MachineLetter) uint32
	InLetterSet(letter tilemapping.MachineLetter, nodeIdx uint32) bool
	LetterSet(nodeIdx uint32) uint64
	IterateSiblings(nodeIdx uint32, cb func(ml tilemapping.MachineLetter, nn uint32))
	LexiconName() string
}

var _ WordGraph = (*KWG)(nil)

// Lexicon adapts a WordGraph to lexicon validity queries (§12 SUPPLEMENTED
// FEATURES: a lexicon.Validator used by gcgio to flag phony plays).
type Lexicon struct {
	KWG *KWG
}

// IsValid reports whether w is a valid word in this lexicon.
func (l *Lexicon) IsValid(w tilemapping.MachineWord) bool {
	return l.KWG.Accept(w)
}

// Name returns the lexicon's name.
func (l *Lexicon) Name() string {
	return l.KWG.LexiconName()
}

// AcceptAll is a Lexicon stand-in that accepts every word; used by the
// "cs" (cross-score-only) generator mode where no lexicon is loaded (§4.D).
type AcceptAll struct{}

// IsValid always returns true.
func (AcceptAll) IsValid(tilemapping.MachineWord) bool { return true }

// Name returns a placeholder name.
func (AcceptAll) Name() string { return "" }
