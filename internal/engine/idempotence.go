package engine

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/redactyl/anonymizer/internal/strategy"
	"github.com/redactyl/anonymizer/internal/types"
)

// AlreadyAnonymizedRatio is the token density above which text is treated
// as already sanitized. Density exactly at the ratio is processed normally.
const AlreadyAnonymizedRatio = 0.95

var reToken = regexp.MustCompile(`\[(?:` + strings.Join(strategy.TokenPrefixes(), "|") + `):[^\]\n]*\]`)

// TokenSpans returns the byte ranges of anonymization tokens in text.
func TokenSpans(text string) [][]int {
	return reToken.FindAllStringIndex(text, -1)
}

// TokenDensity is the total character length of the anonymization tokens in
// text divided by the number of non-whitespace characters. Spaces inside a
// token count toward its length. Text with no non-whitespace characters has
// density 0.
func TokenDensity(text string) float64 {
	total := countNonSpace(text)
	if total == 0 {
		return 0
	}
	inTokens := 0
	for _, s := range TokenSpans(text) {
		inTokens += utf8.RuneCountInString(text[s[0]:s[1]])
	}
	return float64(inTokens) / float64(total)
}

// AlreadyAnonymized reports whether text is made up almost entirely of
// anonymization tokens.
func AlreadyAnonymized(text string) bool {
	return TokenDensity(text) > AlreadyAnonymizedRatio
}

func countNonSpace(s string) int {
	n := 0
	for _, r := range s {
		if !unicode.IsSpace(r) {
			n++
		}
	}
	return n
}

// dropTokenOverlaps discards matches touching an existing token so that
// re-running over partly sanitized text never rewrites a token.
func dropTokenOverlaps(text string, ms []types.Match) []types.Match {
	spans := TokenSpans(text)
	if len(spans) == 0 {
		return ms
	}
	out := ms[:0:0]
	for _, m := range ms {
		// first span ending after m.Start is the only candidate overlap
		i := sort.Search(len(spans), func(i int) bool { return spans[i][1] > m.Start })
		if i < len(spans) && spans[i][0] < m.End {
			continue
		}
		out = append(out, m)
	}
	return out
}
