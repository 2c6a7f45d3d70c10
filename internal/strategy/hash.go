package strategy

import (
	"encoding/hex"

	"github.com/redactyl/anonymizer/internal/types"
)

// Hash replaces a value with the first 8 hex characters of
// HMAC-SHA256(key, salt || value).
type Hash struct {
	k keyed
}

// NewHash returns a Hash strategy. An empty key selects DefaultKey.
func NewHash(key, salt string) *Hash {
	return &Hash{k: newKeyed(key, salt)}
}

func (h *Hash) Name() types.StrategyName { return types.StrategyHash }

func (h *Hash) Apply(m types.Match, _ string) string {
	return Token(types.StrategyHash, m.Type, h.Digest(m.Value)[:8]+"...")
}

// Digest returns the full hex HMAC of value.
func (h *Hash) Digest(value string) string {
	return hex.EncodeToString(h.k.sum(value))
}
