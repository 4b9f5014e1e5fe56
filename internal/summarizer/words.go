package summarizer

import (
	"fmt"
	"strings"
	"unicode"
)

// CountWords counts whitespace separated words.
func CountWords(s string) int { return len(strings.Fields(s)) }

// ClampWords cuts s after its n-th word, keeping the original spacing and
// line breaks of the retained prefix.
func ClampWords(s string, n int) string {
	s = strings.TrimSpace(s)
	if n <= 0 {
		return ""
	}
	words := 0
	inWord := false
	for i, r := range s {
		if unicode.IsSpace(r) {
			if inWord && words == n {
				return s[:i]
			}
			inWord = false
			continue
		}
		if !inWord {
			inWord = true
			words++
		}
	}
	return s
}

func checkBounds(minLength, maxLength int) error {
	if maxLength <= 0 || minLength < 0 || minLength > maxLength {
		return fmt.Errorf("invalid summary bounds: min %d, max %d", minLength, maxLength)
	}
	return nil
}
