// Package gaddagmaker builds in-memory word graphs (GADDAGs, and plain
// forward DAWGs for the leave valuator) from word lists. Production lexicon
// files are an opaque, pre-built external resource (spec §1); this package
// exists so tests and small built-in lexica don't need one on disk.
//
// This is a direct simplification of the node-packing algorithm the teacher
// codebase uses (gaddagmaker/make_gaddag.go): the same trie-then-flatten
// approach, minus the node-sharing minimization pass, which only affects
// file size, not correctness or the read-side kwg.KWG API.
package gaddagmaker

import (
	"sort"

	"github.com/crosswordlabs/wordcraft/kwg"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

type trieNode struct {
	children map[tilemapping.MachineLetter]*trieNode
	accept   bool
}

func newTrieNode() *trieNode {
	return &trieNode{children: make(map[tilemapping.MachineLetter]*trieNode)}
}

func (n *trieNode) insert(path []tilemapping.MachineLetter) {
	cur := n
	for _, l := range path {
		child, ok := cur.children[l]
		if !ok {
			child = newTrieNode()
			cur.children[l] = child
		}
		cur = child
	}
	cur.accept = true
}

type builder struct {
	nodes []uint32
}

func (b *builder) serialize(n *trieNode) uint32 {
	if len(n.children) == 0 {
		return 0
	}
	letters := make([]tilemapping.MachineLetter, 0, len(n.children))
	for l := range n.children {
		letters = append(letters, l)
	}
	sort.Slice(letters, func(i, j int) bool { return letters[i] < letters[j] })

	start := uint32(len(b.nodes))
	for range letters {
		b.nodes = append(b.nodes, 0)
	}
	for i, l := range letters {
		child := n.children[l]
		childArc := b.serialize(child)
		isEnd := i == len(letters)-1
		b.nodes[int(start)+i] = packNode(l, child.accept, isEnd, childArc)
	}
	return start
}

func packNode(letter tilemapping.MachineLetter, accepts, isEnd bool, arcIndex uint32) uint32 {
	v := uint32(letter) << 24
	if accepts {
		v |= 1 << 23
	}
	if isEnd {
		v |= 1 << 22
	}
	v |= arcIndex & (1<<22 - 1)
	return v
}

// buildFromPaths flattens a set of letter sequences into a packed node
// array following the node-0-sentinel, node-1-bootstraps-root convention.
func buildFromPaths(paths [][]tilemapping.MachineLetter) []uint32 {
	root := newTrieNode()
	for _, p := range paths {
		root.insert(p)
	}
	b := &builder{nodes: []uint32{0, 0}}
	rootStart := b.serialize(root)
	b.nodes[1] = packNode(0, false, false, rootStart)
	return b.nodes
}

// gaddagPaths generates, for one word, every reversed-prefix/separator/
// suffix split the GADDAG spec describes (spec §3 Word graph node): for
// split i (0-indexed, i from 0 to n-1), the path is
// reverse(w[0..i]) + SEPARATOR + w[i+1..n-1].
func gaddagPaths(w tilemapping.MachineWord) [][]tilemapping.MachineLetter {
	n := len(w)
	paths := make([][]tilemapping.MachineLetter, 0, n)
	for i := 0; i < n; i++ {
		path := make([]tilemapping.MachineLetter, 0, n+1)
		for j := i; j >= 0; j-- {
			path = append(path, w[j])
		}
		path = append(path, tilemapping.SeparationMachineLetter)
		for j := i + 1; j < n; j++ {
			path = append(path, w[j])
		}
		paths = append(paths, path)
	}
	return paths
}

// BuildGaddag builds a GADDAG-shaped kwg.KWG from a word list, each word
// given in machine-letter form (no blanks: a lexicon entry is a sequence
// of concrete letters).
func BuildGaddag(lexiconName string, words []tilemapping.MachineWord) *kwg.KWG {
	var paths [][]tilemapping.MachineLetter
	for _, w := range words {
		paths = append(paths, gaddagPaths(w)...)
	}
	return kwg.FromNodes(lexiconName, buildFromPaths(paths))
}

// BuildDawg builds a plain forward trie (no GADDAG reversal) from a word
// list; used by klv.Build for the leave-value graph, whose paths are
// already-sorted rack multisets rather than words.
func BuildDawg(name string, paths [][]tilemapping.MachineLetter) *kwg.KWG {
	return kwg.FromNodes(name, buildFromPaths(paths))
}
