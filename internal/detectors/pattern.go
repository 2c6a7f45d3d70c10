package detectors

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/redactyl/anonymizer/internal/merge"
	"github.com/redactyl/anonymizer/internal/types"
)

// PatternName is the detector name reported on pattern matches.
const PatternName = "pattern"

// CustomConfidence is assigned to matches of a caller-supplied pattern for a
// type with no built-in rule.
const CustomConfidence = 0.8

// rule is one compiled pattern. group selects the capture group holding the
// value; 0 means the whole match.
type rule struct {
	typ   types.EntityType
	re    *regexp.Regexp
	group int
	conf  float64
}

const titleAlternation = `Mr|Mrs|Ms|Miss|Mx|Dr|Prof|Sir|Dame|Lady|Lord|Rev`

var builtinRules = []rule{
	{types.EntityEmail, regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`), 0, 0.95},
	{types.EntityPhone, regexp.MustCompile(`(?:\+44[\s-]?(?:\(0\)[\s-]?)?|\b0)\d{2,4}[\s-]?\d{3,4}[\s-]?\d{3,4}\b`), 0, 0.85},
	{types.EntityPostcode, regexp.MustCompile(`\b(?:GIR ?0AA|[A-Z]{1,2}\d[A-Z\d]? ?\d[A-Z]{2})\b`), 0, 0.85},
	{types.EntityCard, regexp.MustCompile(`\b(?:\d{4}[\s-]?){3}\d{4}\b`), 0, 0.9},
	{types.EntityNINumber, regexp.MustCompile(`\b[A-CEGHJ-PR-TW-Z]{2}\s?\d{2}\s?\d{2}\s?\d{2}\s?[A-D]\b`), 0, 0.9},
	{types.EntityNHSNumber, regexp.MustCompile(`\b\d{3}[\s-]?\d{3}[\s-]?\d{4}\b`), 0, 0.85},
	{types.EntityIBAN, regexp.MustCompile(`\b[A-Z]{2}\d{2}(?: ?[A-Z0-9]{4}){2,7}(?: ?[A-Z0-9]{1,3})?\b`), 0, 0.95},
	{types.EntitySortCode, regexp.MustCompile(`\b\d{2}-\d{2}-\d{2}\b`), 0, 0.8},
	{types.EntityURL, regexp.MustCompile(`\b(?:https?://|www\.)[^\s<>"'()\[\]{}]+`), 0, 0.9},
	{types.EntityIPAddress, regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}\b`), 0, 0.9},
	{types.EntityDateOfBirth, regexp.MustCompile(`(?i:\b(?:dob|d\.o\.b\.?|date of birth|born(?: on)?))\s*[:\-]?\s*(\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}|\d{1,2}\s+(?i:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4})\b`), 1, 0.85},
	{types.EntityPassport, regexp.MustCompile(`(?i:\bpassport(?:\s+(?:no|num|number))?\.?)\s*[:#]?\s*([A-Z0-9]{6,9})\b`), 1, 0.85},
	{types.EntityPerson, regexp.MustCompile(`\b(?:` + titleAlternation + `)\.?(?:\s+[A-Z][a-z]+(?:['\-][A-Z][a-z]+)?){1,2}\b`), 0, 0.75},
	{types.EntityOrg, regexp.MustCompile(`\b(?:[A-Z][A-Za-z0-9&'\-]*\s+){1,4}(?:Ltd|Limited|PLC|plc|LLP|LLC|Inc|Corp|Corporation|Group|Holdings|Partners)\b`), 0, 0.75},
}

// singleNameConfidence is assigned to lone first names.
const singleNameConfidence = 0.6

// Pattern is the regular-expression detector. It also reports lone
// capitalized first names as SINGLE_NAME.
type Pattern struct {
	rules       []rule
	singleNames bool
	firstNames  map[string]bool
}

// NewPattern compiles the built-in rules, with custom replacing the rule of
// the same type or adding a rule for a new type. An invalid custom pattern
// is an error.
func NewPattern(custom map[types.EntityType]string) (*Pattern, error) {
	p := &Pattern{firstNames: firstNames(), singleNames: true}
	overridden := map[types.EntityType]bool{}

	keys := make([]types.EntityType, 0, len(custom))
	for t := range custom {
		keys = append(keys, t)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	var extra []rule
	for _, t := range keys {
		src := strings.TrimSpace(custom[t])
		if src == "" {
			continue
		}
		re, err := regexp.Compile(src)
		if err != nil {
			return nil, fmt.Errorf("compile custom pattern for %s: %w", t, err)
		}
		overridden[t] = true
		if t == types.EntitySingleName {
			p.singleNames = false
		}
		conf := CustomConfidence
		for _, r := range builtinRules {
			if r.typ == t {
				conf = r.conf
			}
		}
		extra = append(extra, rule{typ: t, re: re, conf: conf})
	}
	for _, r := range builtinRules {
		if !overridden[r.typ] {
			p.rules = append(p.rules, r)
		}
	}
	p.rules = append(p.rules, extra...)
	return p, nil
}

func (p *Pattern) Name() string { return PatternName }

// Types lists the entity types this detector can report.
func (p *Pattern) Types() []types.EntityType {
	seen := map[types.EntityType]bool{}
	var out []types.EntityType
	for _, r := range p.rules {
		if !seen[r.typ] {
			seen[r.typ] = true
			out = append(out, r.typ)
		}
	}
	if p.singleNames {
		out = append(out, types.EntitySingleName)
	}
	return out
}

// Signature lists every compiled pattern, one per line.
func (p *Pattern) Signature() string {
	var b strings.Builder
	for _, r := range p.rules {
		fmt.Fprintf(&b, "%s\t%d\t%g\t%s\n", r.typ, r.group, r.conf, r.re.String())
	}
	fmt.Fprintf(&b, "single_names\t%t\t%d\n", p.singleNames, len(p.firstNames))
	return b.String()
}

// Detect scans the NFC form of text. Callers that need offsets into their
// own string should normalize it first.
func (p *Pattern) Detect(text string) []types.Match {
	text = norm.NFC.String(text)
	var out []types.Match
	for _, r := range p.rules {
		for _, loc := range r.re.FindAllStringSubmatchIndex(text, -1) {
			if 2*r.group+1 >= len(loc) {
				continue
			}
			s, e := loc[2*r.group], loc[2*r.group+1]
			if s < 0 || s >= e {
				continue
			}
			m := types.Match{Type: r.typ, Value: text[s:e], Start: s, End: e, Confidence: r.conf, Detector: PatternName}
			if m, ok := applyValidators(text, m); ok {
				out = append(out, m)
			}
		}
	}
	if p.singleNames {
		out = append(out, p.singleNameMatches(text, out)...)
	}
	return merge.Resolve(out)
}

// singleNameMatches reports capitalized first names that are not part of an
// email address or URL already found.
func (p *Pattern) singleNameMatches(text string, found []types.Match) []types.Match {
	var out []types.Match
	for _, loc := range reWord.FindAllStringIndex(text, -1) {
		s, e := loc[0], loc[1]
		word := text[s:e]
		if !capitalized(word) || !p.firstNames[strings.ToLower(word)] {
			continue
		}
		if (s > 0 && text[s-1] == '@') || (e < len(text) && text[e] == '@') {
			continue
		}
		m := types.Match{Type: types.EntitySingleName, Value: word, Start: s, End: e, Confidence: singleNameConfidence, Detector: PatternName}
		if insideAddress(m, found) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func insideAddress(m types.Match, found []types.Match) bool {
	for _, f := range found {
		if (f.Type == types.EntityEmail || f.Type == types.EntityURL) && f.Overlaps(m) {
			return true
		}
	}
	return false
}
