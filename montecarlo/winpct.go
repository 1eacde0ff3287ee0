package montecarlo

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// MaxSpread and MaxTilesUnseen bound the win-percentage table (spec §6):
// 601 spread rows covering -300..+300, 94 tiles-unseen columns covering
// 0..93.
const (
	MaxSpread      = 300
	MaxTilesUnseen = 93
)

// WinPct is a lookup table of actual-game win rate, indexed by spread
// (clamped to +/-MaxSpread) and tiles unseen (clamped to MaxTilesUnseen).
// No library in the example corpus reads tabular CSV data, so this loader
// uses the standard library's encoding/csv rather than inventing a
// dependency need that doesn't otherwise exist in the domain.
type WinPct struct {
	table [2*MaxSpread + 1][MaxTilesUnseen + 1]float64
}

// LoadWinPct reads a win-percentage CSV (spec §6: first column a spread
// label, ignored here; 601 data rows; 94 numeric columns per row) from r.
func LoadWinPct(r io.Reader) (*WinPct, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("reading win-pct header: %w", err)
	}

	wp := &WinPct{}
	for row := 0; row < len(wp.table); row++ {
		record, err := reader.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("win-pct table has %d data rows, want %d", row, len(wp.table))
		}
		if err != nil {
			return nil, fmt.Errorf("reading win-pct row %d: %w", row, err)
		}
		for col := 1; col < len(record) && col-1 <= MaxTilesUnseen; col++ {
			v, err := strconv.ParseFloat(record[col], 64)
			if err != nil {
				return nil, fmt.Errorf("win-pct row %d col %d: %w", row, col, err)
			}
			wp.table[row][col-1] = v
		}
	}
	return wp, nil
}

// Lookup returns the win rate for a (clamped) spread-plus-leftover and
// (clamped) tiles-unseen pair, ported from winpct.h's inline win_pct.
func (wp *WinPct) Lookup(spreadPlusLeftover, tilesUnseen int) float64 {
	if spreadPlusLeftover > MaxSpread {
		spreadPlusLeftover = MaxSpread
	}
	if spreadPlusLeftover < -MaxSpread {
		spreadPlusLeftover = -MaxSpread
	}
	if tilesUnseen > MaxTilesUnseen {
		tilesUnseen = MaxTilesUnseen
	}
	if tilesUnseen < 0 {
		tilesUnseen = 0
	}
	return wp.table[MaxSpread-spreadPlusLeftover][tilesUnseen]
}
