package engine

import (
	"runtime"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/unicode/norm"

	"github.com/redactyl/anonymizer/internal/merge"
	"github.com/redactyl/anonymizer/internal/types"
)

// DefaultChunkSize is the target chunk length in bytes for streaming mode.
const DefaultChunkSize = 10000

// A split inside a word looks for a space in the last 1/wordBreakWindow of
// the chunk.
const wordBreakWindow = 5

type chunk struct {
	start int
	text  string
}

// splitChunks cuts text into pieces of at most size bytes. Cuts never split
// a UTF-8 sequence. A cut that would land inside a word moves back to the
// last space in the final 20% of the chunk, if there is one; the space then
// begins the next chunk.
func splitChunks(text string, size int) []chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	var out []chunk
	for start := 0; start < len(text); {
		end := start + size
		if end >= len(text) {
			out = append(out, chunk{start: start, text: text[start:]})
			break
		}
		for end > start && !utf8.RuneStart(text[end]) {
			end--
		}
		if end == start {
			_, w := utf8.DecodeRuneInString(text[start:])
			end = start + w
		}
		if !isSpace(text[end-1]) && !isSpace(text[end]) {
			floor := end - (end-start)/wordBreakWindow
			if i := strings.LastIndexByte(text[floor:end], ' '); i >= 0 && floor+i > start {
				end = floor + i
			}
		}
		out = append(out, chunk{start: start, text: text[start:end]})
		start = end
	}
	return out
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// AnonymizeStreaming processes text in chunks of about chunkSize bytes.
// Detection runs on chunks in parallel; replacements are applied chunk by
// chunk in order so pseudonym numbering matches a single pass. Chunk matches
// are shifted to global offsets, merged and summarized once. A chunkSize of
// 0 or less selects DefaultChunkSize.
func (p *Pipeline) AnonymizeStreaming(text string, chunkSize int) types.Result {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	start := p.now()
	normalized := norm.NFC.String(text)
	if len(normalized) <= chunkSize || AlreadyAnonymized(text) {
		res := p.anonymize(text)
		res.DurationMs = p.now().Sub(start).Milliseconds()
		return res
	}

	chunks := splitChunks(normalized, chunkSize)
	detected := make([][]types.Match, len(chunks))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, c := range chunks {
		g.Go(func() error {
			if AlreadyAnonymized(c.text) {
				return nil
			}
			detected[i] = p.Detect(c.text)
			return nil
		})
	}
	_ = g.Wait()

	var b strings.Builder
	b.Grow(len(normalized))
	var all []appliedMatch
	for i, c := range chunks {
		out, applied := p.apply(c.text, detected[i])
		b.WriteString(out)
		shifted := merge.Shift(matchesOf(applied), c.start)
		for j, a := range applied {
			all = append(all, appliedMatch{Match: shifted[j], strategy: a.strategy})
		}
	}

	merged := mergeApplied(all)
	res := types.Result{
		OriginalText:   text,
		AnonymizedText: b.String(),
		Matches:        matchesOf(merged),
		Summary:        p.summarize(merged),
		DurationMs:     p.now().Sub(start).Milliseconds(),
	}
	p.log.Debug("anonymized in chunks",
		zap.Int("bytes", len(text)),
		zap.Int("chunks", len(chunks)),
		zap.Int("matches", res.Summary.TotalMatches),
		zap.Int64("duration_ms", res.DurationMs),
	)
	return res
}

// mergeApplied resolves the chunk matches into one global set and keeps the
// strategy each survivor was applied with.
func mergeApplied(all []appliedMatch) []appliedMatch {
	ms := make([]types.Match, len(all))
	by := make(map[[2]int]types.StrategyName, len(all))
	for i, a := range all {
		ms[i] = a.Match
		by[[2]int{a.Start, a.End}] = a.strategy
	}
	resolved := merge.Resolve(ms)
	out := make([]appliedMatch, len(resolved))
	for i, m := range resolved {
		out[i] = appliedMatch{Match: m, strategy: by[[2]int{m.Start, m.End}]}
	}
	return out
}
