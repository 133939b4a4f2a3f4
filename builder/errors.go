package builder

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
)

// ErrTooFewStates indicates a size parameter below the constructor's minimum.
var ErrTooFewStates = fmt.Errorf("builder: %w: parameter too small", core.ErrInvalidInput)

// ErrInvalidProbability indicates a probability outside [0,1].
var ErrInvalidProbability = fmt.Errorf("builder: %w: probability out of range", core.ErrConfig)

// ErrNeedRandSource indicates a stochastic constructor ran without WithSeed/WithRand.
var ErrNeedRandSource = fmt.Errorf("builder: %w: rng is required", core.ErrConfig)

// ErrBadRule indicates a grammar rule that cannot be parsed.
var ErrBadRule = fmt.Errorf("builder: %w: malformed rule", core.ErrInvalidInput)

// ErrConstructFailed indicates a nil constructor or a failed store mutation.
var ErrConstructFailed = errors.New("builder: construction failed")

// builderErrorf prefixes a wrapped error with the constructor name.
func builderErrorf(method, format string, args ...any) error {
	return fmt.Errorf("%s: "+format, append([]any{method}, args...)...)
}
