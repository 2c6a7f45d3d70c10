package detectors

import (
	_ "embed"
	"strings"
	"sync"

	"github.com/redactyl/anonymizer/internal/merge"
	"github.com/redactyl/anonymizer/internal/types"
)

// NamesName is the detector name reported on heuristic name matches.
const NamesName = "names"

const (
	firstLastConfidence    = 0.7
	titleSurnameConfidence = 0.8
)

var (
	//go:embed data/first_names.txt
	firstNamesTxt string
	//go:embed data/last_names.txt
	lastNamesTxt string
	//go:embed data/titles.txt
	titlesTxt string

	listsOnce sync.Once
	lists     struct{ first, last, titles map[string]bool }
)

func loadLists() {
	listsOnce.Do(func() {
		parse := func(s string) map[string]bool {
			terms, _ := readTerms(strings.NewReader(s))
			return lowerSet(terms)
		}
		lists.first = parse(firstNamesTxt)
		lists.last = parse(lastNamesTxt)
		lists.titles = parse(titlesTxt)
	})
}

func firstNames() map[string]bool { loadLists(); return lists.first }

// Names reports PERSON matches from adjacent tokens: a known first name
// followed by a known last name, or a title followed by a known last name.
// Both tokens must be capitalized and separated only by spaces or tabs.
type Names struct {
	first, last, titles map[string]bool
}

// NewNames returns the heuristic name detector over the embedded lists.
func NewNames() *Names {
	loadLists()
	return &Names{first: lists.first, last: lists.last, titles: lists.titles}
}

func (n *Names) Name() string { return NamesName }

func (n *Names) Signature() string {
	var b strings.Builder
	for _, set := range []map[string]bool{n.first, n.last, n.titles} {
		b.WriteString(strings.Join(sortedKeys(set), ","))
		b.WriteByte('\n')
	}
	return b.String()
}

type token struct {
	start, end int
	word       string
}

func (n *Names) Detect(text string) []types.Match {
	locs := reWord.FindAllStringIndex(text, -1)
	toks := make([]token, len(locs))
	for i, l := range locs {
		toks[i] = token{start: l[0], end: l[1], word: text[l[0]:l[1]]}
	}

	var out []types.Match
	for i := 0; i+1 < len(toks); i++ {
		a, b := toks[i], toks[i+1]
		if !capitalized(a.word) || !capitalized(b.word) || !n.last[strings.ToLower(b.word)] {
			continue
		}
		gapStart := a.end
		if n.titles[strings.ToLower(a.word)] && gapStart < len(text) && text[gapStart] == '.' {
			gapStart++
		}
		if !onlySpacesBetween(text, gapStart, b.start) {
			continue
		}
		var conf float64
		switch {
		case n.titles[strings.ToLower(a.word)]:
			conf = titleSurnameConfidence
		case n.first[strings.ToLower(a.word)]:
			if !onlySpacesBetween(text, a.end, b.start) {
				continue
			}
			conf = firstLastConfidence
		default:
			continue
		}
		if !boundaryBefore(text, a.start) {
			continue
		}
		out = append(out, types.Match{
			Type:       types.EntityPerson,
			Value:      text[a.start:b.end],
			Start:      a.start,
			End:        b.end,
			Confidence: conf,
			Detector:   NamesName,
		})
	}
	return merge.Resolve(out)
}
