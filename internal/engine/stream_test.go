package engine

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redactyl/anonymizer/internal/config"
	"github.com/redactyl/anonymizer/internal/merge"
	"github.com/redactyl/anonymizer/internal/types"
)

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		name string
		text string
		size int
		want []string
	}{
		{"fits in one chunk", "hello world", 50, []string{"hello world"}},
		{"exact boundary on space", "aaaa bbbb", 4, []string{"aaaa", " bbb", "b"}},
		{"moves back to space in last 20%", "abcdefgh ijklmnop", 10, []string{"abcdefgh", " ijklmnop"}},
		{"no space near the end keeps the hard cut", "abcd efghijklmnop", 10, []string{"abcd efghi", "jklmnop"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := splitChunks(tt.text, tt.size)
			var texts []string
			for _, c := range got {
				texts = append(texts, c.text)
				assert.Equal(t, c.text, tt.text[c.start:c.start+len(c.text)])
			}
			assert.Equal(t, tt.want, texts)
		})
	}
}

func TestSplitChunks_RuneSafe(t *testing.T) {
	text := strings.Repeat("é", 50) // two bytes each
	chunks := splitChunks(text, 7)
	var b strings.Builder
	for _, c := range chunks {
		assert.True(t, utf8.ValidString(c.text))
		assert.LessOrEqual(t, len(c.text), 7)
		b.WriteString(c.text)
	}
	assert.Equal(t, text, b.String())
}

func TestAnonymizeStreaming_Coverage(t *testing.T) {
	p := newPipeline(t, config.Default())
	text := strings.Repeat("John Smith (john@example.com) ", 1000)
	res := p.AnonymizeStreaming(text, 1000)

	require.NotEmpty(t, res.Matches)
	assert.Contains(t, res.AnonymizedText, "[PSEUDONYM:PERSON:")
	assert.Contains(t, res.AnonymizedText, "[MASK:EMAIL:")
	assert.NotContains(t, res.AnonymizedText, "john@example.com")
	assert.True(t, merge.NonOverlapping(res.Matches))
	assert.Equal(t, 1000, res.Summary.ByType[types.EntityEmail])
	assert.Equal(t, len(res.Matches), res.Summary.TotalMatches)
	for _, m := range res.Matches {
		assert.Equal(t, m.Value, text[m.Start:m.End])
	}
}

func TestAnonymizeStreaming_MatchesSinglePass(t *testing.T) {
	text := strings.Repeat(richText+"\n", 20)
	single := newPipeline(t, config.Default()).Anonymize(text)
	streamed := newPipeline(t, config.Default()).AnonymizeStreaming(text, 2000)

	assert.Equal(t, single.Summary.ByType[types.EntityEmail], streamed.Summary.ByType[types.EntityEmail])
	assert.True(t, merge.NonOverlapping(streamed.Matches))
	for _, m := range streamed.Matches {
		assert.Equal(t, m.Value, text[m.Start:m.End])
	}
}

func TestAnonymizeStreaming_SmallInputUsesSinglePass(t *testing.T) {
	p := newPipeline(t, config.Default())
	in := "Contact us at john@example.com for more information."
	streamed := p.AnonymizeStreaming(in, 0)
	single := newPipeline(t, config.Default()).Anonymize(in)
	assert.Equal(t, single.AnonymizedText, streamed.AnonymizedText)
	assert.Equal(t, single.Matches, streamed.Matches)
}

func TestAnonymizeStreaming_AlreadyAnonymized(t *testing.T) {
	p := newPipeline(t, config.Default())
	in := strings.Repeat("[REDACTED:CARD] ", 200)
	res := p.AnonymizeStreaming(in, 100)
	assert.Equal(t, in, res.AnonymizedText)
	assert.Empty(t, res.Matches)
}
