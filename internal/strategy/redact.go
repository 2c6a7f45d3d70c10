package strategy

import "github.com/redactyl/anonymizer/internal/types"

// Redact drops the value entirely: [REDACTED:TYPE].
type Redact struct{}

func (Redact) Name() types.StrategyName { return types.StrategyRedact }

func (Redact) Apply(m types.Match, _ string) string {
	return Token(types.StrategyRedact, m.Type, "")
}
