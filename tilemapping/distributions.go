package tilemapping

// EnglishLetterForms is the display-form table for the English alphabet:
// index 0 is the blank/empty marker, 1..26 are A..Z.
var EnglishLetterForms = func() []string {
	forms := make([]string, 27)
	forms[0] = ""
	for i := 0; i < 26; i++ {
		forms[i+1] = string(rune('A' + i))
	}
	return forms
}()

var englishCounts = []uint32{
	2, // blank
	9, 2, 2, 4, 12, 2, 3, 2, 9, 1, 1, 4, 2,
	6, 8, 2, 1, 6, 4, 6, 4, 2, 2, 1, 2, 1,
}

var englishScores = []uint32{
	0, // blank
	1, 3, 3, 2, 1, 4, 2, 4, 1, 8, 5, 1, 3,
	1, 1, 3, 10, 1, 1, 1, 1, 4, 4, 8, 4, 10,
}

var englishVowelSet = map[byte]bool{'A': true, 'E': true, 'I': true, 'O': true, 'U': true}

// EnglishDistribution returns the standard 100-tile English Scrabble
// letter distribution, built in directly so the engine never needs a
// distribution file on disk just to run a unit test or REPL session
// against the built-in lexica.
func EnglishDistribution() *LetterDistribution {
	vowels := make([]bool, 27)
	for i := 1; i < 27; i++ {
		vowels[i] = englishVowelSet[byte('A'+i-1)]
	}
	return NewDistribution("English", EnglishLetterForms, englishCounts, englishScores, vowels)
}
