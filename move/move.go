// Package move defines a candidate play and the bounded, two-mode list the
// generator populates (spec §3 Move, Move list).
package move

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"

	"github.com/samber/lo"

	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// Type distinguishes a scoring play from an exchange or a pass.
type Type uint8

const (
	TypePlay Type = iota
	TypeExchange
	TypePass
)

// PassEquity is the sentinel equity assigned to a pass: below any possible
// real play's equity (spec §4.E).
const PassEquity = -10000.0

// Move is a candidate play, scored or not.
type Move struct {
	action      Type
	score       int
	equity      float64
	tiles       tilemapping.MachineWord
	leave       tilemapping.MachineWord
	rowStart    int
	colStart    int
	vertical    bool
	tilesPlayed int
}

// NewPlay constructs a scoring PLAY move. tiles spans the full footprint,
// PlayedThroughMarker at already-occupied squares.
func NewPlay(score int, tiles, leave tilemapping.MachineWord, vertical bool, tilesPlayed, row, col int) *Move {
	return &Move{
		action: TypePlay, score: score, tiles: tiles, leave: leave,
		vertical: vertical, tilesPlayed: tilesPlayed, rowStart: row, colStart: col,
	}
}

// NewExchange constructs an EXCHANGE move returning the given tiles
// (unblanked: a designated blank is exchanged as the bare blank).
func NewExchange(tiles, leave tilemapping.MachineWord) *Move {
	return &Move{action: TypeExchange, tiles: tiles, leave: leave, tilesPlayed: len(tiles)}
}

// NewPass constructs a PASS move carrying the sentinel equity.
func NewPass(leave tilemapping.MachineWord) *Move {
	return &Move{action: TypePass, leave: leave, equity: PassEquity}
}

func (m *Move) Action() Type                    { return m.action }
func (m *Move) Score() int                      { return m.score }
func (m *Move) Equity() float64                 { return m.equity }
func (m *Move) SetEquity(e float64)              { m.equity = e }
func (m *Move) Tiles() tilemapping.MachineWord  { return m.tiles }
func (m *Move) Leave() tilemapping.MachineWord  { return m.leave }
func (m *Move) TilesPlayed() int                { return m.tilesPlayed }
func (m *Move) Vertical() bool                  { return m.vertical }
func (m *Move) RowStart() int                   { return m.rowStart }
func (m *Move) ColStart() int                   { return m.colStart }
func (m *Move) IsBingo() bool                   { return m.action == TypePlay && m.tilesPlayed == 7 }

func (m *Move) String() string {
	switch m.action {
	case TypePlay:
		return fmt.Sprintf("<play %s score=%d equity=%.2f>", m.BoardCoords(), m.score, m.equity)
	case TypeExchange:
		return fmt.Sprintf("<exchange %d tiles equity=%.2f>", len(m.tiles), m.equity)
	default:
		return fmt.Sprintf("<pass equity=%.2f>", m.equity)
	}
}

// BoardCoords renders the move's position in board-game notation (e.g.
// "8F" horizontal, "H8" vertical); empty for non-PLAY moves.
func (m *Move) BoardCoords() string {
	if m.action != TypePlay {
		return ""
	}
	return ToBoardGameCoords(m.rowStart, m.colStart, m.vertical)
}

// UniqueKey returns a fast, collision-resistant key for deduplicating
// plays recorded under RECORD_ALL: (row, col, dir, tiles) (spec §8 round-
// trip law).
func (m *Move) UniqueKey() string {
	dir := "H"
	if m.vertical {
		dir = "V"
	}
	return fmt.Sprintf("%d,%d,%s,%v,%d", m.rowStart, m.colStart, dir, []byte(m.tiles), m.action)
}

var reVertical = regexp.MustCompile(`^(?P<col>[A-Z])(?P<row>[0-9]+)$`)
var reHorizontal = regexp.MustCompile(`^(?P<row>[0-9]+)(?P<col>[A-Z])$`)

// ToBoardGameCoords converts a (row, col, vertical) triple to a coordinate
// string like "5F" (horizontal) or "G4" (vertical).
func ToBoardGameCoords(row, col int, vertical bool) string {
	colCoords := string(rune('A' + col))
	rowCoords := strconv.Itoa(row + 1)
	if vertical {
		return colCoords + rowCoords
	}
	return rowCoords + colCoords
}

// FromBoardGameCoords is the inverse of ToBoardGameCoords.
func FromBoardGameCoords(c string) (row, col int, vertical bool, ok bool) {
	if m := reVertical.FindStringSubmatch(c); len(m) == 3 {
		row, _ = strconv.Atoi(m[2])
		return row - 1, int(m[1][0] - 'A'), true, true
	}
	if m := reHorizontal.FindStringSubmatch(c); len(m) == 3 {
		row, _ = strconv.Atoi(m[1])
		return row - 1, int(m[2][0] - 'A'), false, true
	}
	return 0, 0, false, false
}

// RecordMode selects how a List accumulates candidates (spec §3 Move list).
type RecordMode int

const (
	// RecordAll appends every play; Sort orders them by equity descending.
	RecordAll RecordMode = iota
	// RecordBest keeps only the single highest-equity play seen so far.
	RecordBest
)

// List is a bounded-capacity collection of candidate moves.
type List struct {
	mode  RecordMode
	cap   int
	moves []*Move
	best  *Move
	seen  map[string]bool
}

// DefaultCapacity is the hard cap on RECORD_ALL entries per generation
// (spec §9 design note: not required by the spec itself, but a sane bound
// against runaway generation).
const DefaultCapacity = 1_000_000

// NewList creates an empty move list in the given mode.
func NewList(mode RecordMode) *List {
	l := &List{mode: mode, cap: DefaultCapacity}
	if mode == RecordAll {
		l.seen = make(map[string]bool)
	}
	return l
}

// Add records m according to the list's mode. Under RecordAll, m is
// dropped as a duplicate if an equal play was already recorded: the
// anchor-sorted generation order (spec §4.E Phase 1) can rediscover the
// same play from more than one anchor in the same row.
func (l *List) Add(m *Move) {
	switch l.mode {
	case RecordBest:
		if l.best == nil || m.equity > l.best.equity {
			l.best = m
		}
	default:
		if m.action == TypePlay {
			key := m.UniqueKey()
			if l.seen[key] {
				return
			}
			l.seen[key] = true
		}
		if len(l.moves) >= l.cap {
			return
		}
		l.moves = append(l.moves, m)
	}
}

// Moves returns every recorded move; in RecordBest mode this is at most
// one element.
func (l *List) Moves() []*Move {
	if l.mode == RecordBest {
		if l.best == nil {
			return nil
		}
		return []*Move{l.best}
	}
	return l.moves
}

// Best returns the single highest-equity move recorded, or nil if empty.
func (l *List) Best() *Move {
	if l.mode == RecordBest {
		return l.best
	}
	var best *Move
	for _, m := range l.moves {
		if best == nil || m.equity > best.equity {
			best = m
		}
	}
	return best
}

// TopN returns the first n moves (by whatever order the list is currently
// in, typically called right after Sort), or fewer if the list is
// shorter, without panicking on an out-of-range n.
func (l *List) TopN(n int) []*Move {
	return lo.Slice(l.Moves(), 0, n)
}

// Sort orders a RecordAll list by equity descending, once, at the end of
// generation.
func (l *List) Sort() {
	if l.mode != RecordAll {
		return
	}
	sort.SliceStable(l.moves, func(i, j int) bool {
		return l.moves[i].equity > l.moves[j].equity
	})
}

// Len returns the number of moves currently recorded.
func (l *List) Len() int {
	if l.mode == RecordBest {
		if l.best == nil {
			return 0
		}
		return 1
	}
	return len(l.moves)
}
