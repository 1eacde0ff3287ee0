package kwg

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Load reads a raw KWG file: a little-endian packed 32-bit node array with
// no header, file size 4*num_nodes (spec §6).
func Load(r io.Reader, lexiconName string) (*KWG, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading kwg: %w", err)
	}
	if len(raw)%4 != 0 {
		return nil, fmt.Errorf("kwg file size %d is not a multiple of 4", len(raw))
	}
	nodes := make([]uint32, len(raw)/4)
	for i := range nodes {
		nodes[i] = binary.LittleEndian.Uint32(raw[i*4:])
	}
	return FromNodes(lexiconName, nodes), nil
}
