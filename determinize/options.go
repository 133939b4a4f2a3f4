package determinize

import (
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
)

// Treatment selects how a special symbol is handled.
type Treatment uint8

const (
	// Unspecified leaves the choice to the default (rho) or rejects the input (phi, sigma).
	Unspecified Treatment = iota
	// Special applies the symbol's matching semantics.
	Special
	// Ordinary treats the symbol as a plain label.
	Ordinary
)

// String returns "unspecified", "special" or "ordinary".
func (t Treatment) String() string {
	switch t {
	case Special:
		return "special"
	case Ordinary:
		return "ordinary"
	}
	return "unspecified"
}

// ParseTreatment reads the String form.
func ParseTreatment(s string) (Treatment, error) {
	switch s {
	case "", "unspecified":
		return Unspecified, nil
	case "special":
		return Special, nil
	case "ordinary":
		return Ordinary, nil
	}
	return Unspecified, fmt.Errorf("determinize: %w: unknown treatment %q", core.ErrConfig, s)
}

var (
	// ErrUnconfigured reports phi or sigma arcs without an explicit treatment.
	ErrUnconfigured = fmt.Errorf("determinize: %w: symbol present without treatment", core.ErrConfig)

	// ErrTooManyStates reports that the subset construction exceeded WithMaxStates.
	ErrTooManyStates = fmt.Errorf("determinize: %w: too many states", core.ErrConfig)

	// ErrNotFSM reports non-FSM input.
	ErrNotFSM = fmt.Errorf("determinize: %w: input is not an FSM", core.ErrInvalidInput)

	// ErrWeighted reports an arc whose weight is not One.
	ErrWeighted = fmt.Errorf("determinize: %w: weighted input", core.ErrInvalidInput)
)

// Option configures a determinization run.
type Option func(*Options)

// Options holds the resolved settings.
type Options struct {
	Rho, Phi, Sigma Treatment

	// MaxStates bounds the output size; 0 means unbounded.
	MaxStates int
}

// DefaultOptions returns every treatment Unspecified and no bound.
func DefaultOptions() Options { return Options{} }

// WithRho sets the rho treatment.
func WithRho(t Treatment) Option { return func(o *Options) { o.Rho = t } }

// WithPhi sets the phi treatment.
func WithPhi(t Treatment) Option { return func(o *Options) { o.Phi = t } }

// WithSigma sets the sigma treatment.
func WithSigma(t Treatment) Option { return func(o *Options) { o.Sigma = t } }

// WithMaxStates bounds the number of output subsets. Panics on negative n.
func WithMaxStates(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("determinize: WithMaxStates(%d)", n))
	}
	return func(o *Options) { o.MaxStates = n }
}
