package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	xxhash "github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/redactyl/anonymizer/internal/config"
	"github.com/redactyl/anonymizer/internal/detectors"
	"github.com/redactyl/anonymizer/internal/logger"
	"github.com/redactyl/anonymizer/internal/merge"
	"github.com/redactyl/anonymizer/internal/policy"
	"github.com/redactyl/anonymizer/internal/strategy"
	"github.com/redactyl/anonymizer/internal/types"
)

// Version is the release of the built-in rule set. Summaries report it
// together with a fingerprint of the rules and dictionaries actually loaded.
const Version = "1.0.0"

// Pipeline anonymizes text according to one immutable configuration. It is
// safe for concurrent use; the only shared mutable state is the pseudonym
// table, which locks internally.
type Pipeline struct {
	cfg        config.AnonymizationConfig
	detectors  *detectors.Registry
	strategies *strategy.Registry
	log        *logger.Logger
	version    string
	now        func() time.Time

	warned sync.Map
}

// Option customizes a Pipeline at construction.
type Option func(*options)

type options struct {
	pseudonym *strategy.Pseudonym
	extra     []detectors.Detector
}

// WithPseudonym shares an existing pseudonym table, so labels stay
// consistent across pipelines. The table keeps its own key and salt.
func WithPseudonym(p *strategy.Pseudonym) Option {
	return func(o *options) { o.pseudonym = p }
}

// WithDetectors registers additional detectors after the built-in ones.
func WithDetectors(ds ...detectors.Detector) Option {
	return func(o *options) { o.extra = append(o.extra, ds...) }
}

// New builds a pipeline from cfg. The config is repaired first. Dictionary
// files that cannot be read are logged and skipped; an invalid custom
// pattern is an error. A nil log discards output.
func New(cfg config.AnonymizationConfig, log *logger.Logger, opts ...Option) (*Pipeline, error) {
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("engine")
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg = config.Normalize(cfg)

	custom := map[types.EntityType]string{}
	for t, ec := range cfg.Entities {
		if ec.CustomPattern != "" {
			custom[t] = ec.CustomPattern
		}
	}
	pattern, err := detectors.NewPattern(custom)
	if err != nil {
		return nil, fmt.Errorf("build pattern detector: %w", err)
	}
	reg := detectors.NewRegistry(pattern, detectors.NewNames())
	for _, d := range detectors.LoadDictionaries(cfg.DictionaryPaths, log) {
		reg.Register(d)
	}
	for _, d := range o.extra {
		reg.Register(d)
	}

	if cfg.HMACKey == "" {
		log.Warn("no hmacKey configured, using the built-in default key; hashes and pseudonyms are predictable")
	}
	pseudo := o.pseudonym
	if pseudo == nil {
		pseudo = strategy.NewPseudonym(cfg.HMACKey, cfg.Salt)
	}

	p := &Pipeline{
		cfg:        cfg,
		detectors:  reg,
		strategies: strategy.NewRegistryWithPseudonym(cfg.HMACKey, cfg.Salt, pseudo),
		log:        log,
		version:    detectorVersion(reg),
		now:        time.Now,
	}
	log.Info("pipeline initialized",
		zap.Strings("detectors", reg.Names()),
		zap.Int("enabled_types", len(policy.Enabled(cfg))),
		zap.String("detector_version", p.version),
	)
	return p, nil
}

// Config returns the repaired configuration the pipeline runs with.
func (p *Pipeline) Config() config.AnonymizationConfig { return p.cfg }

// DetectorNames lists the registered detectors, sorted.
func (p *Pipeline) DetectorNames() []string { return p.detectors.Names() }

// DetectorVersion returns the version stamp reported in summaries.
func (p *Pipeline) DetectorVersion() string { return p.version }

// Pseudonyms returns the pseudonym table, for export and import.
func (p *Pipeline) Pseudonyms() *strategy.Pseudonym { return p.strategies.Pseudonym() }

// Anonymize runs the single-pass pipeline over text.
func (p *Pipeline) Anonymize(text string) types.Result {
	start := p.now()
	res := p.anonymize(text)
	res.DurationMs = p.now().Sub(start).Milliseconds()
	p.log.Debug("anonymized",
		zap.Int("bytes", len(text)),
		zap.Int("matches", res.Summary.TotalMatches),
		zap.Int64("duration_ms", res.DurationMs),
	)
	return res
}

func (p *Pipeline) anonymize(text string) types.Result {
	if AlreadyAnonymized(text) {
		return p.unchanged(text)
	}
	normalized := norm.NFC.String(text)
	ms := p.Detect(normalized)
	out, applied := p.apply(normalized, ms)
	return types.Result{
		OriginalText:   text,
		AnonymizedText: out,
		Matches:        matchesOf(applied),
		Summary:        p.summarize(applied),
	}
}

func (p *Pipeline) unchanged(text string) types.Result {
	return types.Result{
		OriginalText:   text,
		AnonymizedText: text,
		Matches:        []types.Match{},
		Summary:        p.summarize(nil),
	}
}

// Detect returns the matches the pipeline would replace in text: detector
// output with existing tokens protected, filtered by policy and resolved to
// a non-overlapping set. Offsets refer to the NFC form of text.
func (p *Pipeline) Detect(text string) []types.Match {
	text = norm.NFC.String(text)
	ms := detectors.RunAll(p.detectors, text, func(name string, err error) {
		p.log.Warn("detector failed, skipping", zap.String("detector", name), zap.Error(err))
	})
	ms = dropTokenOverlaps(text, ms)
	ms = policy.Filter(ms, p.cfg)
	return merge.Resolve(ms)
}

type appliedMatch struct {
	types.Match
	strategy types.StrategyName
}

// apply replaces every match in text. Replacements are computed in reading
// order, so pseudonym numbers follow the text, and spliced from the end
// backwards so earlier offsets stay valid.
func (p *Pipeline) apply(text string, ms []types.Match) (string, []appliedMatch) {
	applied := make([]appliedMatch, len(ms))
	repl := make([]string, len(ms))
	for i, m := range ms {
		s := p.strategyFor(m.Type)
		applied[i] = appliedMatch{Match: m, strategy: s.Name()}
		repl[i] = s.Apply(m, text)
	}

	order := make([]int, len(ms))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return ms[order[a]].Start > ms[order[b]].Start })

	out := text
	for _, i := range order {
		m := ms[i]
		out = out[:m.Start] + repl[i] + out[m.End:]
	}
	return out, applied
}

func (p *Pipeline) strategyFor(t types.EntityType) strategy.Strategy {
	ec, _ := p.cfg.Entity(t)
	s, fellBack := p.strategies.Resolve(ec.Strategy)
	if fellBack {
		if _, seen := p.warned.LoadOrStore(t, true); !seen {
			p.log.Warn("no strategy registered, falling back to REDACT",
				zap.String("entity_type", string(t)),
				zap.String("strategy", string(ec.Strategy)),
			)
		}
	}
	return s
}

func matchesOf(applied []appliedMatch) []types.Match {
	out := make([]types.Match, len(applied))
	for i, a := range applied {
		out[i] = a.Match
	}
	return out
}

// detectorVersion stamps the rule set: the release plus an xxhash of every
// detector's name and signature.
func detectorVersion(reg *detectors.Registry) string {
	h := xxhash.New()
	for _, name := range reg.Names() {
		d, _ := reg.Get(name)
		_, _ = h.WriteString(name)
		_, _ = h.WriteString("\x00")
		if s, ok := d.(detectors.Signer); ok {
			_, _ = h.WriteString(s.Signature())
		}
		_, _ = h.WriteString("\x00")
	}
	return fmt.Sprintf("%s+%016x", Version, h.Sum64())
}

