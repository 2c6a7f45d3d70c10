package detectors

import (
	"fmt"
	"sort"

	"github.com/redactyl/anonymizer/internal/types"
)

// Detector proposes candidate PII matches. Detect is a pure function of its
// input and returns matches that do not overlap each other.
type Detector interface {
	Name() string
	Detect(text string) []types.Match
}

// Signer is implemented by detectors whose behavior depends on loaded data
// (patterns, term lists). The signature feeds the detector version stamp.
type Signer interface {
	Signature() string
}

// Registry holds detectors by name in registration order.
type Registry struct {
	order  []Detector
	byName map[string]Detector
}

// NewRegistry returns a registry holding ds.
func NewRegistry(ds ...Detector) *Registry {
	r := &Registry{byName: map[string]Detector{}}
	for _, d := range ds {
		r.Register(d)
	}
	return r
}

// Register adds d, replacing any detector already registered under its name.
func (r *Registry) Register(d Detector) {
	if _, ok := r.byName[d.Name()]; ok {
		for i, old := range r.order {
			if old.Name() == d.Name() {
				r.order[i] = d
			}
		}
	} else {
		r.order = append(r.order, d)
	}
	r.byName[d.Name()] = d
}

// Get returns the detector registered under name.
func (r *Registry) Get(name string) (Detector, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// All returns the detectors in registration order.
func (r *Registry) All() []Detector {
	return append([]Detector(nil), r.order...)
}

// Names returns the registered detector names, sorted.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.order))
	for _, d := range r.order {
		out = append(out, d.Name())
	}
	sort.Strings(out)
	return out
}

// SafeDetect runs d and converts a panic into an error so one faulty
// detector cannot abort a run. The error carries only the detector name.
func SafeDetect(d Detector, text string) (ms []types.Match, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			ms = nil
			err = fmt.Errorf("detector %s panicked", d.Name())
		}
	}()
	return d.Detect(text), nil
}

// RunAll runs every detector in r over text. Failed detectors are reported
// through onErr and skipped.
func RunAll(r *Registry, text string, onErr func(name string, err error)) []types.Match {
	var out []types.Match
	for _, d := range r.order {
		ms, err := SafeDetect(d, text)
		if err != nil {
			if onErr != nil {
				onErr(d.Name(), err)
			}
			continue
		}
		out = append(out, ms...)
	}
	return out
}
