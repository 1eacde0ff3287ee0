package movegen

import (
	"github.com/crosswordlabs/wordcraft/klv"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// leaveMap caches the leave equity for every subset of a starting rack,
// indexed by a bitmask over that rack's distinct letters. The generator
// threads the current mask explicitly through its recursion instead of
// keeping it as generator-global mutable state (spec §9 design note on the
// leave-map bitmask).
type leaveMap struct {
	letters []tilemapping.MachineLetter // distinct starting letters, index = bit position
	values  []float64                   // one per subset, 2^len(letters) entries
}

func newLeaveMap(rack *tilemapping.Rack, lv *klv.KLV, dist *tilemapping.LetterDistribution) *leaveMap {
	letters := rack.NonzeroLetters()
	n := len(letters)
	lm := &leaveMap{letters: letters, values: make([]float64, 1<<uint(n))}

	scratch := tilemapping.NewRack(dist)
	for mask := 0; mask < (1 << uint(n)); mask++ {
		scratch.Set(nil)
		for i, l := range letters {
			if mask&(1<<uint(i)) != 0 {
				count := rack.Count(l)
				for k := 0; k < count; k++ {
					scratch.Add(l)
				}
			}
		}
		lm.values[mask] = lv.LeaveValue(scratch)
	}
	return lm
}

// fullMask is the bitmask representing the entire starting rack kept (no
// tiles played yet).
func (lm *leaveMap) fullMask() int {
	return (1 << uint(len(lm.letters))) - 1
}

// bitFor returns the bit index for letter ml, or -1 if ml wasn't part of
// the starting rack (e.g. it's a second copy of a letter already cleared,
// which this simplified map does not distinguish beyond presence/absence).
func (lm *leaveMap) bitFor(ml tilemapping.MachineLetter) int {
	for i, l := range lm.letters {
		if l == ml {
			return i
		}
	}
	return -1
}

// valueAt returns the cached leave value for the given kept-letters mask.
func (lm *leaveMap) valueAt(mask int) float64 {
	return lm.values[mask]
}
