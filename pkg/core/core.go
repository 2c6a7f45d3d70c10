package core

import (
	"github.com/redactyl/anonymizer/internal/config"
	"github.com/redactyl/anonymizer/internal/engine"
	"github.com/redactyl/anonymizer/internal/logger"
	"github.com/redactyl/anonymizer/internal/strategy"
	"github.com/redactyl/anonymizer/internal/types"
)

// Re-export selected internal types as a stable public API surface.
// These are type aliases so external consumers can depend on a stable path.
type (
	Config           = config.AnonymizationConfig
	EntityConfig     = config.EntityConfig
	EntityType       = types.EntityType
	StrategyName     = types.StrategyName
	Match            = types.Match
	Result           = types.Result
	Summary          = types.Summary
	PseudonymMapping = types.PseudonymMapping
	Pipeline         = engine.Pipeline
	Pseudonym        = strategy.Pseudonym
	Logger           = logger.Logger
)

// DefaultChunkSize is the streaming chunk size used when none is given.
const DefaultChunkSize = engine.DefaultChunkSize

// DefaultConfig returns the built-in profile.
func DefaultConfig() Config { return config.Default() }

// LoadConfig reads a JSON or YAML profile, repairing malformed fields.
func LoadConfig(path string) (Config, error) { return config.LoadFile(path) }

// ParseConfig repairs an untyped profile, e.g. one decoded by the caller.
func ParseConfig(raw map[string]any) Config { return config.Parse(raw) }

// New builds a reusable pipeline. Reuse one pipeline per session so
// pseudonym labels stay consistent between calls. A nil log discards output.
func New(cfg Config, log *Logger) (*Pipeline, error) {
	return engine.New(cfg, log)
}

// NewPseudonym returns a standalone pseudonym table, for sharing between
// pipelines with NewShared.
func NewPseudonym(hmacKey, salt string) *Pseudonym {
	return strategy.NewPseudonym(hmacKey, salt)
}

// NewShared builds a pipeline that allocates labels from p.
func NewShared(cfg Config, log *Logger, p *Pseudonym) (*Pipeline, error) {
	return engine.New(cfg, log, engine.WithPseudonym(p))
}

// Anonymize runs one single-pass anonymization with a fresh pipeline.
func Anonymize(text string, cfg Config) (Result, error) {
	p, err := engine.New(cfg, nil)
	if err != nil {
		return Result{}, err
	}
	return p.Anonymize(text), nil
}

// AnonymizeStreaming is Anonymize for large inputs, processed in chunks of
// about chunkSize bytes. chunkSize <= 0 selects DefaultChunkSize.
func AnonymizeStreaming(text string, cfg Config, chunkSize int) (Result, error) {
	p, err := engine.New(cfg, nil)
	if err != nil {
		return Result{}, err
	}
	return p.AnonymizeStreaming(text, chunkSize), nil
}

// AlreadyAnonymized reports whether text is already dominated by
// anonymization tokens and would be returned unchanged.
func AlreadyAnonymized(text string) bool { return engine.AlreadyAnonymized(text) }
