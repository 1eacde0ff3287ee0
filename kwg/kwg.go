// Package kwg implements the word graph: a packed DAWG/GADDAG over 32-bit
// nodes, queried by the board's cross-set generator and the move generator.
package kwg

import "github.com/crosswordlabs/wordcraft/tilemapping"

// Node bit layout, matching the on-disk format exactly so a KWG file can be
// mapped straight into a []uint32 with no transformation beyond byte order:
//
//	bits 24-31: letter (tilemapping.MachineLetter, unblanked)
//	bit  23:    accepts
//	bit  22:    is_end_of_sibling_list
//	bits 0-21:  arc_index
const (
	letterShift   = 24
	acceptsBit    = uint32(1) << 23
	isEndBit      = uint32(1) << 22
	arcIndexMask  = uint32(1)<<22 - 1
)

// rootNodeIndex is the fixed index whose arc_index field points at the
// actual root of the graph; node 0 is an unused sentinel.
const rootNodeIndex = 1

// KWG is a loaded word graph. It is immutable after construction and safe
// for concurrent use by any number of generator goroutines.
type KWG struct {
	nodes       []uint32
	lexiconName string
}

// FromNodes wraps an already-decoded node array (e.g. loaded from a KWG
// file, or built in memory by a test) as a KWG.
func FromNodes(lexiconName string, nodes []uint32) *KWG {
	return &KWG{nodes: nodes, lexiconName: lexiconName}
}

// LexiconName returns the name this graph was loaded under, e.g. "CSW19".
func (k *KWG) LexiconName() string {
	return k.lexiconName
}

// Root returns the node index of the graph's root.
func (k *KWG) Root() uint32 {
	return k.ArcIndex(rootNodeIndex)
}

// Tile returns the packed letter field of node n.
func (k *KWG) Tile(n uint32) tilemapping.MachineLetter {
	return tilemapping.MachineLetter(k.nodes[n] >> letterShift)
}

// Accepts reports whether node n's accepts bit is set: the path ending here
// spells a complete, lexicon-valid word (or GADDAG half-word).
func (k *KWG) Accepts(n uint32) bool {
	return k.nodes[n]&acceptsBit != 0
}

// IsEnd reports whether n is the last node in its sibling list.
func (k *KWG) IsEnd(n uint32) bool {
	return k.nodes[n]&isEndBit != 0
}

// ArcIndex returns the arc_index field of node n: the index of its first
// child, or 0 if n has no children. Callers must never follow a zero arc.
func (k *KWG) ArcIndex(n uint32) uint32 {
	return k.nodes[n] & arcIndexMask
}

// NextNodeIdx walks the sibling list starting at node n looking for a
// sibling whose letter equals l, and returns that sibling's arc_index (the
// index of l's own children), or 0 if no such arc exists.
func (k *KWG) NextNodeIdx(n uint32, l tilemapping.MachineLetter) uint32 {
	i := n
	for {
		if k.Tile(i) == l {
			return k.ArcIndex(i)
		}
		if k.IsEnd(i) {
			return 0
		}
		i++
	}
}

// InLetterSet reports whether l (blank-stripped) both appears as a sibling
// of n and accepts there, i.e. whether playing l at this point in the
// traversal completes a valid word.
func (k *KWG) InLetterSet(l tilemapping.MachineLetter, n uint32) bool {
	l = tilemapping.Unblanked(l)
	i := n
	for {
		if k.Tile(i) == l {
			return k.Accepts(i)
		}
		if k.IsEnd(i) {
			return false
		}
		i++
	}
}

// LetterSet returns the 64-bit mask of letters for which some sibling of n
// has accepts set, i.e. every letter that can legally close a word at this
// point in the traversal.
func (k *KWG) LetterSet(n uint32) uint64 {
	var ls uint64
	i := n
	for {
		if k.Accepts(i) {
			ls |= uint64(1) << k.Tile(i)
		}
		if k.IsEnd(i) {
			break
		}
		i++
	}
	return ls
}

// IterateSiblings calls cb once per sibling of n, in storage order, passing
// each sibling's letter and the arc_index of its own children.
func (k *KWG) IterateSiblings(n uint32, cb func(ml tilemapping.MachineLetter, nextNode uint32)) {
	i := n
	for {
		cb(k.Tile(i), k.ArcIndex(i))
		if k.IsEnd(i) {
			return
		}
		i++
	}
}

// NumNodes returns the number of 32-bit nodes backing this graph.
func (k *KWG) NumNodes() int {
	return len(k.nodes)
}

// Nodes returns the packed node array backing k, e.g. for a writer that
// serializes a KWG or an embedding KLV back to the on-disk format.
func (k *KWG) Nodes() []uint32 {
	return k.nodes
}

// Accept reports whether the full word w is accepted starting at the
// graph's root, walking forward letter by letter. This is the ordinary
// (non-GADDAG) membership test, useful for lexicon validation outside the
// move generator's bidirectional walk.
func (k *KWG) Accept(w tilemapping.MachineWord) bool {
	if len(w) == 0 {
		return false
	}
	node := k.Root()
	for i, ml := range w {
		ml = tilemapping.Unblanked(ml)
		if i == len(w)-1 {
			return k.InLetterSet(ml, node)
		}
		node = k.NextNodeIdx(node, ml)
		if node == 0 {
			return false
		}
	}
	return false
}
