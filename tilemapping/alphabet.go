package tilemapping

import (
	"sort"
	"strings"
)

// TileMapping is the bidirectional mapping between a lexicon's machine
// letters and their human-visible string forms. Forms may be more than one
// rune (Catalan's "l·l" digraph, for instance), so lookups are done against
// a sorted-by-length table rather than a simple rune map.
type TileMapping struct {
	name string
	// letterForms[ml] is the canonical display string for machine letter ml.
	letterForms []string
	// longestFirst is letterForms' indices sorted so that the longest forms
	// are tried first during a forward (string) parse, matching the
	// distribution's own longest-match convention.
	longestFirst []MachineLetter
}

// NewTileMapping builds a TileMapping from an ordered list of letter forms.
// forms[0] is conventionally unused (machine letter 0 is the blank/empty
// marker); forms[i] for i>0 is the display string for machine letter i.
func NewTileMapping(name string, forms []string) *TileMapping {
	tm := &TileMapping{name: name, letterForms: append([]string(nil), forms...)}
	order := make([]MachineLetter, len(forms))
	for i := range forms {
		order[i] = MachineLetter(i)
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(tm.letterForms[order[i]]) > len(tm.letterForms[order[j]])
	})
	tm.longestFirst = order
	return tm
}

// Name returns the alphabet's name, e.g. "English" or "Catalan".
func (tm *TileMapping) Name() string {
	return tm.name
}

// NumLetters returns the number of distinct non-blank letters.
func (tm *TileMapping) NumLetters() int {
	return len(tm.letterForms) - 1
}

// Letter renders a single machine letter (blank-mark aware) as a string.
// A designated blank is rendered lowercase, matching CGP and GCG convention.
func (tm *TileMapping) Letter(ml MachineLetter) string {
	if ml == 0 {
		return " "
	}
	blank := IsBlanked(ml)
	base := Unblanked(ml)
	if int(base) >= len(tm.letterForms) {
		return "?"
	}
	s := tm.letterForms[base]
	if blank {
		return strings.ToLower(s)
	}
	return s
}

// MachineLetterFromRune looks up the machine letter for a single uppercase
// rune form, or the blank machine letter (0) for '?'. It returns false if
// the rune isn't part of this alphabet.
func (tm *TileMapping) MachineLetterFromRune(r rune) (MachineLetter, bool) {
	if r == '?' {
		return 0, true
	}
	s := string(r)
	for i, f := range tm.letterForms {
		if f == s {
			return MachineLetter(i), true
		}
	}
	return 0, false
}

// ToMachineWord forward-parses a human-visible string into a MachineWord,
// trying the longest known letter forms first so multi-rune forms like
// Catalan's "L·L" are preferred over a rune-by-rune parse. Lowercase runs
// are treated as designated blanks within this fixed alphabet.
func (tm *TileMapping) ToMachineWord(s string) (MachineWord, error) {
	var out MachineWord
	runes := []rune(s)
	for i := 0; i < len(runes); {
		matched := false
		for _, ml := range tm.longestFirst {
			if ml == 0 {
				continue
			}
			form := tm.letterForms[ml]
			upper := strings.ToUpper(form)
			n := len([]rune(upper))
			if i+n > len(runes) {
				continue
			}
			cand := string(runes[i : i+n])
			if strings.EqualFold(cand, form) {
				if cand == strings.ToLower(form) && cand != form {
					out = append(out, Blanked(ml))
				} else {
					out = append(out, ml)
				}
				i += n
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if runes[i] == '?' {
			out = append(out, 0)
			i++
			continue
		}
		return nil, errUnknownLetter(runes[i])
	}
	return out, nil
}
