package tilemapping

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// distributionMagic is the 4-byte tag at the start of a letter-distribution
// file, matching the original implementation's "clds" magic string.
const distributionMagic = "clds"

// LetterDistribution is immutable after load: per-tile bag counts, point
// scores, vowel flags, and the string mapping needed to go from machine
// letters to human-visible text and back.
type LetterDistribution struct {
	Name string

	tm *TileMapping

	counts []uint32
	scores []uint32
	vowels []bool

	// scoreOrder lists every machine letter sorted by score descending,
	// used by the shadow pass's admissible upper bound (§4.E).
	scoreOrder []MachineLetter
}

// Size returns the alphabet size (number of distinct non-blank letters).
func (ld *LetterDistribution) Size() int {
	return len(ld.counts) - 1
}

// TileMapping returns the distribution's string<->machine-letter mapping.
func (ld *LetterDistribution) TileMapping() *TileMapping {
	return ld.tm
}

// Count returns the number of copies of ml placed in a fresh bag.
func (ld *LetterDistribution) Count(ml MachineLetter) int {
	return int(ld.counts[Unblanked(ml)])
}

// Score returns the point value of ml. A designated blank always scores 0,
// independent of the letter it plays as.
func (ld *LetterDistribution) Score(ml MachineLetter) int {
	if IsBlanked(ml) {
		return 0
	}
	return int(ld.scores[ml])
}

// IsVowel reports whether ml (blank-stripped) is a vowel in this alphabet.
func (ld *LetterDistribution) IsVowel(ml MachineLetter) bool {
	return ld.vowels[Unblanked(ml)]
}

// ScoreOrder returns every machine letter (0 excluded) ordered by score
// descending, the ordering the shadow pass's upper bound walks.
func (ld *LetterDistribution) ScoreOrder() []MachineLetter {
	return ld.scoreOrder
}

// TotalTiles returns the sum of all per-letter bag counts, i.e. the size
// of a freshly filled bag.
func (ld *LetterDistribution) TotalTiles() int {
	total := 0
	for _, c := range ld.counts {
		total += int(c)
	}
	return total
}

// LetterToString renders a single machine letter; multi-character forms
// (e.g. Catalan's "l·l") are returned whole.
func (ld *LetterDistribution) LetterToString(ml MachineLetter) string {
	return ld.tm.Letter(ml)
}

// StringToLetters forward-parses a human-visible rack or word string into
// machine letters, using a longest-match walk over the alphabet's forms.
func (ld *LetterDistribution) StringToLetters(s string) (MachineWord, error) {
	return ld.tm.ToMachineWord(s)
}

// LoadDistribution parses the tagged binary blob described in spec §6:
// 4-byte magic, length-prefixed name, then three big-endian uint32 arrays
// of length alphabet_size: counts, scores, vowel flags.
func LoadDistribution(r io.Reader, forms []string) (*LetterDistribution, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, 4)
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, fmt.Errorf("reading distribution magic: %w", err)
	}
	if !bytes.Equal(magic, []byte(distributionMagic)) {
		return nil, fmt.Errorf("bad distribution magic %q, want %q", magic, distributionMagic)
	}

	var nameLen uint8
	if err := binary.Read(br, binary.BigEndian, &nameLen); err != nil {
		return nil, fmt.Errorf("reading distribution name length: %w", err)
	}
	nameBytes := make([]byte, nameLen)
	if _, err := io.ReadFull(br, nameBytes); err != nil {
		return nil, fmt.Errorf("reading distribution name: %w", err)
	}

	alphabetSize := len(forms)

	readArray := func() ([]uint32, error) {
		arr := make([]uint32, alphabetSize)
		if err := binary.Read(br, binary.BigEndian, arr); err != nil {
			return nil, err
		}
		return arr, nil
	}

	counts, err := readArray()
	if err != nil {
		return nil, fmt.Errorf("reading counts: %w", err)
	}
	scores, err := readArray()
	if err != nil {
		return nil, fmt.Errorf("reading scores: %w", err)
	}
	vowelFlags, err := readArray()
	if err != nil {
		return nil, fmt.Errorf("reading vowel flags: %w", err)
	}

	vowels := make([]bool, alphabetSize)
	for i, v := range vowelFlags {
		vowels[i] = v != 0
	}

	ld := &LetterDistribution{
		Name:   string(nameBytes),
		tm:     NewTileMapping(string(nameBytes), forms),
		counts: counts,
		scores: scores,
		vowels: vowels,
	}
	ld.buildScoreOrder()
	return ld, nil
}

func (ld *LetterDistribution) buildScoreOrder() {
	order := make([]MachineLetter, 0, len(ld.scores)-1)
	for i := 1; i < len(ld.scores); i++ {
		order = append(order, MachineLetter(i))
	}
	// simple insertion sort descending by score; alphabets are small (<= 64)
	for i := 1; i < len(order); i++ {
		j := i
		for j > 0 && ld.scores[order[j-1]] < ld.scores[order[j]] {
			order[j-1], order[j] = order[j], order[j-1]
			j--
		}
	}
	ld.scoreOrder = order
}

// NewDistribution constructs a LetterDistribution directly from in-memory
// arrays, bypassing the binary format. Used by tests and by built-in
// distributions compiled into the binary (see distributions.go).
func NewDistribution(name string, forms []string, counts, scores []uint32, vowels []bool) *LetterDistribution {
	ld := &LetterDistribution{
		Name:   name,
		tm:     NewTileMapping(name, forms),
		counts: append([]uint32(nil), counts...),
		scores: append([]uint32(nil), scores...),
		vowels: append([]bool(nil), vowels...),
	}
	ld.buildScoreOrder()
	return ld
}
