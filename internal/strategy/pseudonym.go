package strategy

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/redactyl/anonymizer/internal/types"
)

// Pseudonym replaces values with stable labels such as "Person 003". The
// mapping from keyed value hash to label lives for the lifetime of the
// instance and can be exported and imported. It is safe for concurrent use.
type Pseudonym struct {
	k keyed

	mu       sync.Mutex
	byHash   map[string]types.PseudonymMapping
	counters map[string]int
	now      func() time.Time
}

// NewPseudonym returns an empty pseudonym table. An empty key selects
// DefaultKey.
func NewPseudonym(key, salt string) *Pseudonym {
	return &Pseudonym{
		k:        newKeyed(key, salt),
		byHash:   map[string]types.PseudonymMapping{},
		counters: map[string]int{},
		now:      time.Now,
	}
}

func (p *Pseudonym) Name() types.StrategyName { return types.StrategyPseudonym }

func (p *Pseudonym) Apply(m types.Match, _ string) string {
	return Token(types.StrategyPseudonym, m.Type, p.Label(m.Type, m.Value))
}

// Key returns the keyed hash identifying value of type t.
func (p *Pseudonym) Key(t types.EntityType, value string) string {
	return hex.EncodeToString(p.k.sum(string(t), value))
}

// Label returns the label for value, allocating the next one for its type
// on first sight.
func (p *Pseudonym) Label(t types.EntityType, value string) string {
	h := p.Key(t, value)

	p.mu.Lock()
	defer p.mu.Unlock()
	if m, ok := p.byHash[h]; ok {
		return m.Label
	}
	fam := family(t)
	p.counters[fam]++
	label := formatLabel(t, p.counters[fam])
	p.byHash[h] = types.PseudonymMapping{PIIHash: h, Type: t, Label: label, FirstSeenAt: p.now().UTC()}
	return label
}

// Len returns the number of recorded mappings.
func (p *Pseudonym) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.byHash)
}

// Export returns a snapshot of the mapping sorted by type and label.
func (p *Pseudonym) Export() []types.PseudonymMapping {
	p.mu.Lock()
	out := make([]types.PseudonymMapping, 0, len(p.byHash))
	for _, m := range p.byHash {
		out = append(out, m)
	}
	p.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		ni, nj := labelNumber(out[i].Label), labelNumber(out[j].Label)
		if ni != nj {
			return ni < nj
		}
		return out[i].Label < out[j].Label
	})
	return out
}

// Import loads previously exported mappings. Entries already present are
// kept, entries without a hash or label are skipped. Each type's counter is
// advanced past the highest number found among its labels so new values
// never reuse an imported label. It returns how many entries were added.
func (p *Pseudonym) Import(ms []types.PseudonymMapping) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	added := 0
	for _, m := range ms {
		if m.PIIHash == "" || m.Label == "" {
			continue
		}
		m.Type = types.EntityType(strings.ToUpper(string(m.Type)))
		if n := labelNumber(m.Label); n > p.counters[family(m.Type)] {
			p.counters[family(m.Type)] = n
		}
		if _, ok := p.byHash[m.PIIHash]; ok {
			continue
		}
		if m.FirstSeenAt.IsZero() {
			m.FirstSeenAt = p.now().UTC()
		}
		p.byHash[m.PIIHash] = m
		added++
	}
	return added
}

// family groups types that share a label sequence. SINGLE_NAME and PERSON
// both produce "Person NNN" labels and so share a counter.
func family(t types.EntityType) string {
	if t == types.EntitySingleName {
		return string(types.EntityPerson)
	}
	return string(t)
}

func formatLabel(t types.EntityType, n int) string {
	switch t {
	case types.EntityPerson, types.EntitySingleName:
		return fmt.Sprintf("Person %03d", n)
	case types.EntityOrg:
		return fmt.Sprintf("Organization %03d", n)
	case types.EntityEmail:
		return fmt.Sprintf("user%03d@example.com", n)
	}
	return fmt.Sprintf("%s %03d", titleCase(string(t)), n)
}

// titleCase turns "NI_NUMBER" into "Ni Number".
func titleCase(s string) string {
	words := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// labelNumber returns the last run of digits in label, or 0.
func labelNumber(label string) int {
	end := -1
	for i := len(label) - 1; i >= 0; i-- {
		if label[i] >= '0' && label[i] <= '9' {
			end = i
			break
		}
	}
	if end < 0 {
		return 0
	}
	start := end
	for start > 0 && label[start-1] >= '0' && label[start-1] <= '9' {
		start--
	}
	n := 0
	for _, c := range label[start : end+1] {
		n = n*10 + int(c-'0')
		if n > 1<<30 {
			return 1 << 30
		}
	}
	return n
}
