package detectors

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/redactyl/anonymizer/internal/logger"
	"github.com/redactyl/anonymizer/internal/types"
)

// DictionaryConfidence is assigned to every dictionary match.
const DictionaryConfidence = 0.9

// fileTypes maps dictionary base names (without extension) onto entity types.
var fileTypes = map[string]types.EntityType{
	"staff":         types.EntityPerson,
	"people":        types.EntityPerson,
	"employees":     types.EntityPerson,
	"names":         types.EntityPerson,
	"persons":       types.EntityPerson,
	"clients":       types.EntityOrg,
	"customers":     types.EntityOrg,
	"organizations": types.EntityOrg,
	"organisations": types.EntityOrg,
	"companies":     types.EntityOrg,
	"orgs":          types.EntityOrg,
}

// TypeForFile returns the entity type implied by a dictionary file name.
// Unknown names map to CUSTOM.
func TypeForFile(path string) types.EntityType {
	base := strings.ToLower(filepath.Base(path))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if t, ok := fileTypes[base]; ok {
		return t
	}
	return types.EntityCustom
}

type term struct {
	text string
	re   *regexp.Regexp
}

// Dictionary matches a fixed term list case-insensitively on word
// boundaries. Overlapping hits keep the longer term.
type Dictionary struct {
	name  string
	typ   types.EntityType
	terms []term
}

// NewDictionary builds a detector named "dictionary:<name>" over terms.
func NewDictionary(name string, typ types.EntityType, terms []string) *Dictionary {
	d := &Dictionary{name: "dictionary:" + name, typ: typ}
	seen := map[string]bool{}
	for _, t := range terms {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		d.terms = append(d.terms, term{text: t, re: regexp.MustCompile(`(?i)` + regexp.QuoteMeta(t))})
	}
	// longest first so equal-start hits prefer the longer term
	sort.SliceStable(d.terms, func(i, j int) bool { return len(d.terms[i].text) > len(d.terms[j].text) })
	return d
}

func (d *Dictionary) Name() string { return d.name }

// Type returns the entity type reported by this dictionary.
func (d *Dictionary) Type() types.EntityType { return d.typ }

// Len returns the number of distinct terms.
func (d *Dictionary) Len() int { return len(d.terms) }

func (d *Dictionary) Signature() string {
	var b strings.Builder
	b.WriteString(string(d.typ))
	for _, t := range d.terms {
		b.WriteByte('\n')
		b.WriteString(strings.ToLower(t.text))
	}
	return b.String()
}

func (d *Dictionary) Detect(text string) []types.Match {
	var hits []types.Match
	for _, t := range d.terms {
		for _, loc := range t.re.FindAllStringIndex(text, -1) {
			s, e := loc[0], loc[1]
			if s >= e || !boundaryBefore(text, s) || !boundaryAfter(text, e) {
				continue
			}
			hits = append(hits, types.Match{Type: d.typ, Value: text[s:e], Start: s, End: e, Confidence: DictionaryConfidence, Detector: d.name})
		}
	}
	return keepLongest(hits)
}

// keepLongest drops hits overlapping a longer one and returns the rest in
// start order. Equal lengths keep the earlier hit.
func keepLongest(hits []types.Match) []types.Match {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Len() != hits[j].Len() {
			return hits[i].Len() > hits[j].Len()
		}
		return hits[i].Start < hits[j].Start
	})
	var kept []types.Match
	for _, h := range hits {
		clash := false
		for _, k := range kept {
			if k.Overlaps(h) {
				clash = true
				break
			}
		}
		if !clash {
			kept = append(kept, h)
		}
	}
	sort.Slice(kept, func(i, j int) bool { return kept[i].Start < kept[j].Start })
	return kept
}

// LoadDictionary reads one term list from path.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer f.Close()
	terms, err := readTerms(f)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return NewDictionary(base, TypeForFile(path), terms), nil
}

// LoadDictionaries expands each entry of paths as a doublestar glob and loads
// every file found. Missing or unreadable files are logged and skipped.
func LoadDictionaries(paths []string, log *logger.Logger) []*Dictionary {
	if log == nil {
		log = logger.Nop()
	}
	var out []*Dictionary
	seen := map[string]bool{}
	for _, p := range paths {
		files, err := doublestar.FilepathGlob(p)
		if err != nil {
			log.Warn("invalid dictionary path", zap.String("path", p), zap.Error(err))
			continue
		}
		if len(files) == 0 {
			log.Warn("dictionary not found", zap.String("path", p))
			continue
		}
		sort.Strings(files)
		for _, f := range files {
			if seen[f] {
				continue
			}
			seen[f] = true
			d, err := LoadDictionary(f)
			if err != nil {
				log.Warn("skipping dictionary", zap.String("path", f), zap.Error(err))
				continue
			}
			log.Debug("loaded dictionary", zap.String("path", f), zap.String("type", string(d.Type())), zap.Int("terms", d.Len()))
			out = append(out, d)
		}
	}
	return out
}
