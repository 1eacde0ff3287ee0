package tilemapping

import "fmt"

// unknownLetterError is returned when a forward parse encounters a rune the
// alphabet does not recognize.
type unknownLetterError struct {
	r rune
}

func (e *unknownLetterError) Error() string {
	return fmt.Sprintf("letter not in alphabet: %q", e.r)
}

func errUnknownLetter(r rune) error {
	return &unknownLetterError{r: r}
}
