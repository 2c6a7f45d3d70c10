package detectors

import (
	"bufio"
	"io"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// reWord matches a letter run with inner apostrophes or hyphens, as in
// "O'Brien" or "Smith-Jones".
var reWord = regexp.MustCompile(`\p{L}+(?:['\x{2019}\-]\p{L}+)*`)

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// boundaryBefore reports whether the rune ending at byte i is not a letter
// or digit. The start of text counts as a boundary.
func boundaryBefore(text string, i int) bool {
	if i <= 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

// boundaryAfter reports whether the rune starting at byte i is not a letter
// or digit. The end of text counts as a boundary.
func boundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

// capitalized reports whether s starts with an upper-case letter.
func capitalized(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsUpper(r)
}

// keywordBefore reports whether one of words occurs in the window bytes of
// text preceding start. Matching is case-insensitive and whole-word.
func keywordBefore(text string, start, window int, words []string) bool {
	from := start - window
	if from < 0 {
		from = 0
	}
	for from > 0 && !utf8.RuneStart(text[from]) {
		from++
	}
	ctx := strings.ToLower(text[from:start])
	for _, w := range words {
		for off := 0; ; {
			i := strings.Index(ctx[off:], w)
			if i < 0 {
				break
			}
			i += off
			if boundaryBefore(ctx, i) && boundaryAfter(ctx, i+len(w)) {
				return true
			}
			off = i + 1
		}
	}
	return false
}

// onlySpacesBetween reports whether text[a:b] is non-empty horizontal
// whitespace. Names split across lines are not joined.
func onlySpacesBetween(text string, a, b int) bool {
	if a >= b {
		return false
	}
	for _, r := range text[a:b] {
		if r != ' ' && r != '\t' && r != '\u00a0' {
			return false
		}
	}
	return true
}

// readTerms reads a newline-delimited list. Blank lines and lines starting
// with '#' are skipped; surrounding whitespace is trimmed.
func readTerms(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	return out, sc.Err()
}

// lowerSet builds a lookup set from terms, lower-cased.
func lowerSet(terms []string) map[string]bool {
	m := make(map[string]bool, len(terms))
	for _, t := range terms {
		m[strings.ToLower(t)] = true
	}
	return m
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
