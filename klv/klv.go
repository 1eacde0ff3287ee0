// Package klv implements the leave valuator: a dedicated word graph over
// partial-rack multisets, paired with a parallel array of floating point
// equity values indexed by a rank computed from the graph's structure
// (spec §3, §4.C).
package klv

import (
	"encoding/binary"
	"fmt"
	"io"
	"sort"

	"github.com/crosswordlabs/wordcraft/gaddagmaker"
	"github.com/crosswordlabs/wordcraft/kwg"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// KLV is immutable after construction: the word graph over leaves, a
// word-count cache per node supporting O(rack-size * alphabet) ranking,
// and the leave values themselves.
type KLV struct {
	graph      *kwg.KWG
	wordCounts []int
	leaveValues []float32
}

// LeaveEntry pairs a leave (a multiset of tiles, blanks as machine letter 0)
// with its equity value, the unit Build consumes.
type LeaveEntry struct {
	Leave tilemapping.MachineWord
	Value float32
}

// Build constructs a KLV from a set of leave/value pairs. Each leave is
// canonicalized to ascending machine-letter order (blanks, machine letter
// 0, sort first) before insertion, matching the canonical ordering
// leave_value's rank walk assumes.
func Build(name string, entries []LeaveEntry) *KLV {
	paths := make([][]tilemapping.MachineLetter, len(entries))
	for i, e := range entries {
		sorted := append(tilemapping.MachineWord(nil), e.Leave...)
		sort.Slice(sorted, func(a, b int) bool { return sorted[a] < sorted[b] })
		paths[i] = []tilemapping.MachineLetter(sorted)
	}
	graph := gaddagmaker.BuildDawg(name, paths)

	k := &KLV{graph: graph}
	k.computeWordCounts()

	k.leaveValues = make([]float32, k.wordCounts[k.graph.Root()])
	for i, e := range entries {
		rack := rackFromWord(paths[i])
		idx, ok := k.wordIndexOf(k.graph.Root(), rack)
		if ok {
			k.leaveValues[idx] = e.Value
		}
	}
	return k
}

// rackCounts is a minimal per-letter count array, independent of any
// LetterDistribution, sized to cover the whole tilemapping letter range.
type rackCounts struct {
	counts []int
	total  int
}

func rackFromWord(w []tilemapping.MachineLetter) *rackCounts {
	rc := &rackCounts{counts: make([]int, tilemapping.MaxAlphabetSize)}
	for _, l := range w {
		rc.counts[l]++
		rc.total++
	}
	return rc
}

func (k *KLV) computeWordCounts() {
	n := k.graph.NumNodes()
	wc := make([]int, n)
	for p := n - 1; p >= 0; p-- {
		a := 0
		if k.graph.Accepts(uint32(p)) {
			a = 1
		}
		b := 0
		if arc := k.graph.ArcIndex(uint32(p)); arc != 0 {
			b = wc[arc]
		}
		c := 0
		// Node 1 is the synthetic root-bootstrap slot (rootNodeIndex), never
		// a true member of a sibling list, so it has no "next sibling" to
		// fold in even though its own isEnd bit is unset.
		if p != 1 && !k.graph.IsEnd(uint32(p)) && p+1 < n {
			c = wc[p+1]
		}
		wc[p] = a + b + c
	}
	k.wordCounts = wc
}

// wordIndexOf implements the original's get_word_index_of: walk the graph
// consuming the rack's letters in ascending order, accumulating a rank by
// summing the word-count deltas of branches not taken.
func (k *KLV) wordIndexOf(nodeIndex uint32, rack *rackCounts) (int, bool) {
	idx := 0
	lidx := 0
	for rack.counts[lidx] == 0 {
		lidx++
		if lidx >= len(rack.counts) {
			return -1, false
		}
	}
	lidxCount := rack.counts[lidx]
	numberOfLetters := rack.total

	node := nodeIndex
	for node != 0 {
		for int(k.graph.Tile(node)) != lidx {
			if k.graph.IsEnd(node) {
				return -1, false
			}
			idx += k.wordCounts[node] - k.wordCounts[node+1]
			node++
		}
		lidxCount--
		numberOfLetters--
		for lidxCount == 0 {
			lidx++
			if lidx >= len(rack.counts) {
				break
			}
			lidxCount = rack.counts[lidx]
		}
		if numberOfLetters == 0 {
			if k.graph.Accepts(node) {
				return idx, true
			}
			return -1, false
		}
		if k.graph.Accepts(node) {
			idx++
		}
		node = k.graph.ArcIndex(node)
	}
	return -1, false
}

// LeaveValue returns the equity bonus for keeping exactly the tiles in
// rack. An empty rack is worth 0; a rack whose multiset isn't in the
// valuator's graph (off-lexicon, or simply too large) is also worth 0
// (spec §4.C).
func (k *KLV) LeaveValue(rack *tilemapping.Rack) float64 {
	if rack.Empty() {
		return 0
	}
	rc := &rackCounts{counts: make([]int, tilemapping.MaxAlphabetSize)}
	for _, ml := range rack.NonzeroLetters() {
		n := rack.Count(ml)
		rc.counts[ml] = n
		rc.total += n
	}
	idx, ok := k.wordIndexOf(k.graph.Root(), rc)
	if !ok {
		return 0
	}
	return float64(k.leaveValues[idx])
}

// Graph exposes the underlying word graph, e.g. for an incremental
// LeaveMap walking it in lock-step with rack pushes/pops.
func (k *KLV) Graph() *kwg.KWG {
	return k.graph
}

// Load reads the packed KLV file format (spec §6): little-endian
// u32 node count, that many packed u32 nodes, a u32 leaf count, then that
// many little-endian f32 leave values. The node array is the same packed
// KWG representation kwg.Load reads; wordCounts is recomputed locally
// since it is a pure function of graph shape, not part of the file.
func Load(r io.Reader, name string) (*KLV, error) {
	var nodeCount uint32
	if err := binary.Read(r, binary.LittleEndian, &nodeCount); err != nil {
		return nil, fmt.Errorf("reading klv node count: %w", err)
	}
	nodes := make([]uint32, nodeCount)
	if err := binary.Read(r, binary.LittleEndian, nodes); err != nil {
		return nil, fmt.Errorf("reading klv nodes: %w", err)
	}

	var leafCount uint32
	if err := binary.Read(r, binary.LittleEndian, &leafCount); err != nil {
		return nil, fmt.Errorf("reading klv leaf count: %w", err)
	}
	leaveValues := make([]float32, leafCount)
	if err := binary.Read(r, binary.LittleEndian, leaveValues); err != nil {
		return nil, fmt.Errorf("reading klv leave values: %w", err)
	}

	k := &KLV{graph: kwg.FromNodes(name, nodes)}
	k.computeWordCounts()
	if got, want := len(leaveValues), k.wordCounts[k.graph.Root()]; got != want {
		return nil, fmt.Errorf("klv leaf count %d does not match graph's %d leaves", got, want)
	}
	k.leaveValues = leaveValues
	return k, nil
}

// Save writes k back out in the packed format Load reads.
func (k *KLV) Save(w io.Writer) error {
	nodes := k.graph.Nodes()
	if err := binary.Write(w, binary.LittleEndian, uint32(len(nodes))); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, nodes); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(k.leaveValues))); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, k.leaveValues)
}
