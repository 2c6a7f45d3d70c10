// Package strategy turns accepted matches into self-describing replacement
// tokens of the form [STRATEGY:TYPE:detail].
package strategy

import (
	"crypto/hmac"
	"crypto/sha256"
	"strings"

	"github.com/redactyl/anonymizer/internal/types"
)

// DefaultKey is the HMAC key used when a profile does not configure one.
// Output stays deterministic but is only as private as this constant.
const DefaultKey = "anonymizer/default-hmac-key/v1"

// Strategy produces the replacement for one match. text is the full text the
// match was detected in; most strategies only need m.Value.
type Strategy interface {
	Name() types.StrategyName
	Apply(m types.Match, text string) string
}

// tokenPrefix maps strategy names onto the leading word of their tokens.
var tokenPrefix = map[types.StrategyName]string{
	types.StrategyRedact:    "REDACTED",
	types.StrategyMask:      "MASK",
	types.StrategyHash:      "HASH",
	types.StrategyPseudonym: "PSEUDONYM",
}

// detailEscaper keeps a detail on one line and inside its brackets.
var detailEscaper = strings.NewReplacer("]", ")", "\n", " ", "\r", " ")

// Token formats a replacement token. An empty detail yields [PREFIX:TYPE].
func Token(s types.StrategyName, t types.EntityType, detail string) string {
	prefix, ok := tokenPrefix[s]
	if !ok {
		prefix = string(s)
	}
	var b strings.Builder
	b.Grow(len(prefix) + len(t) + len(detail) + 4)
	b.WriteByte('[')
	b.WriteString(prefix)
	b.WriteByte(':')
	b.WriteString(string(t))
	if detail != "" {
		b.WriteByte(':')
		// a closing bracket or line break would end the token early
		b.WriteString(detailEscaper.Replace(detail))
	}
	b.WriteByte(']')
	return b.String()
}

// TokenPrefixes returns the leading words every token may start with.
func TokenPrefixes() []string {
	return []string{"REDACTED", "MASK", "HASH", "PSEUDONYM"}
}

// keyed computes HMAC-SHA256 over salt followed by the given parts.
type keyed struct {
	key  []byte
	salt []byte
}

func newKeyed(key, salt string) keyed {
	if key == "" {
		key = DefaultKey
	}
	return keyed{key: []byte(key), salt: []byte(salt)}
}

func (k keyed) sum(parts ...string) []byte {
	mac := hmac.New(sha256.New, k.key)
	mac.Write(k.salt)
	for i, p := range parts {
		if i > 0 {
			mac.Write([]byte{0})
		}
		mac.Write([]byte(p))
	}
	return mac.Sum(nil)
}

// Registry maps strategy names onto implementations. It is built once per
// pipeline and is read-only afterwards.
type Registry struct {
	byName    map[types.StrategyName]Strategy
	pseudonym *Pseudonym
}

// NewRegistry builds the four built-in strategies sharing one key and salt.
func NewRegistry(key, salt string) *Registry {
	return NewRegistryWithPseudonym(key, salt, NewPseudonym(key, salt))
}

// NewRegistryWithPseudonym is NewRegistry with a caller-owned pseudonym
// table, so several pipelines can share one mapping session.
func NewRegistryWithPseudonym(key, salt string, p *Pseudonym) *Registry {
	r := &Registry{byName: map[types.StrategyName]Strategy{}, pseudonym: p}
	r.Register(Redact{})
	r.Register(Mask{})
	r.Register(NewHash(key, salt))
	r.Register(p)
	return r
}

// Register adds or replaces the strategy for s.Name().
func (r *Registry) Register(s Strategy) {
	r.byName[s.Name()] = s
}

// Get returns the strategy registered under name.
func (r *Registry) Get(name types.StrategyName) (Strategy, bool) {
	s, ok := r.byName[name]
	return s, ok
}

// Resolve returns the strategy for name, or Redact when nothing is
// registered under it. The bool reports whether the fallback was used.
func (r *Registry) Resolve(name types.StrategyName) (Strategy, bool) {
	if s, ok := r.byName[name]; ok {
		return s, false
	}
	return Redact{}, true
}

// Pseudonym returns the registry's pseudonym table.
func (r *Registry) Pseudonym() *Pseudonym { return r.pseudonym }
