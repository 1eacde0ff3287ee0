package gcgio

import (
	"fmt"

	"github.com/crosswordlabs/wordcraft/board"
	"github.com/crosswordlabs/wordcraft/game"
	"github.com/crosswordlabs/wordcraft/tilemapping"
)

// PhonyPlay is one tile-placement event found to have formed a word the
// lexicon rejects (ported from words.c's words_check, applied here to a
// parsed game log rather than a live move).
type PhonyPlay struct {
	TurnIndex int
	Nickname  string
	Words     []string
}

// CheckPhonies replays every tile-placement event in h against a fresh
// board built from rules, and reports any event that formed a word not
// accepted by the rules' lexicon. It does not consult the per-event
// PhonyTilesReturned bookkeeping already in the log: it independently
// re-derives phoniness from the board itself.
func CheckPhonies(h *History, rules *game.Rules) ([]PhonyPlay, error) {
	b := rules.NewBoard()
	dist := rules.LetterDistribution()
	lex := rules.Lexicon()

	var phonies []PhonyPlay
	for i, turn := range h.Turns {
		for _, evt := range turn.Events {
			if evt.Type != EventTilePlacement {
				continue
			}
			placed, err := placeEvent(b, dist, evt)
			if err != nil {
				return nil, fmt.Errorf("turn %d: %w", i, err)
			}
			words := formedWords(b, dist, evt, placed)
			var bad []string
			for _, w := range words {
				if !lex.IsValid(w.letters) {
					bad = append(bad, w.display)
				}
			}
			if len(bad) > 0 {
				phonies = append(phonies, PhonyPlay{TurnIndex: i, Nickname: evt.Nickname, Words: bad})
			}
		}
	}
	return phonies, nil
}

// placeEvent lays evt's played tiles onto b, starting at (evt.Row,
// evt.Col) and advancing along evt.Vertical. A '.' in PlayedTiles marks a
// tile already on the board at that square, so it is skipped rather than
// overwritten. It returns the board coordinates of squares this event
// newly occupied.
func placeEvent(b *board.GameBoard, dist *tilemapping.LetterDistribution, evt *Event) ([][2]int, error) {
	row, col := evt.Row, evt.Col
	var placed [][2]int
	for _, r := range evt.PlayedTiles {
		if !inBounds(b, row, col) {
			return nil, fmt.Errorf("play runs off the board at (%d,%d)", row, col)
		}
		if r == '.' {
			if b.IsEmpty(row, col) {
				return nil, fmt.Errorf("played-through square (%d,%d) is empty on the board", row, col)
			}
		} else {
			ml, err := dist.StringToLetters(string(r))
			if err != nil || len(ml) != 1 {
				return nil, fmt.Errorf("unparseable played tile %q", string(r))
			}
			b.SetLetter(row, col, ml[0])
			placed = append(placed, [2]int{row, col})
		}
		if evt.Vertical {
			row++
		} else {
			col++
		}
	}
	return placed, nil
}

type formedWord struct {
	letters tilemapping.MachineWord
	display string
}

// formedWords reconstructs the main word played plus every perpendicular
// cross word formed at a newly placed square, by walking each contiguous
// run of occupied squares outward from evt's start / each placement.
func formedWords(b *board.GameBoard, dist *tilemapping.LetterDistribution, evt *Event, placed [][2]int) []formedWord {
	var out []formedWord
	if w, ok := readRun(b, dist, evt.Row, evt.Col, evt.Vertical); ok && len(w.letters) > 1 {
		out = append(out, w)
	}
	for _, sq := range placed {
		if w, ok := readRun(b, dist, sq[0], sq[1], !evt.Vertical); ok && len(w.letters) > 1 {
			out = append(out, w)
		}
	}
	return out
}

func inBounds(b *board.GameBoard, row, col int) bool {
	dim := b.Dim()
	return row >= 0 && row < dim && col >= 0 && col < dim
}

func occupied(b *board.GameBoard, row, col int) bool {
	return inBounds(b, row, col) && !b.IsEmpty(row, col)
}

// readRun walks backward then forward from (row, col) along the given
// direction across contiguous occupied squares and returns the word they
// spell, or ok=false if that square is empty.
func readRun(b *board.GameBoard, dist *tilemapping.LetterDistribution, row, col int, vertical bool) (formedWord, bool) {
	if !occupied(b, row, col) {
		return formedWord{}, false
	}
	dr, dc := 0, 1
	if vertical {
		dr, dc = 1, 0
	}
	startRow, startCol := row, col
	for occupied(b, startRow-dr, startCol-dc) {
		startRow -= dr
		startCol -= dc
	}
	var letters tilemapping.MachineWord
	var display string
	r, c := startRow, startCol
	for occupied(b, r, c) {
		ml := b.Letter(r, c)
		letters = append(letters, ml)
		display += dist.LetterToString(ml)
		r += dr
		c += dc
	}
	return formedWord{letters: letters, display: display}, true
}
