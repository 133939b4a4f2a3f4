package compose

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/hypergraph/core"
)

// Sentinel errors.
var (
	// ErrNilInput indicates a nil hypergraph or automaton.
	ErrNilInput = errors.New("compose: nil input")

	// ErrNotFSM indicates a transducer argument that is not FSM-shaped.
	ErrNotFSM = fmt.Errorf("compose: %w: transducer is not an FSM", core.ErrConfig)

	// ErrUnsorted indicates a transducer whose out-arcs are not sorted by input label.
	ErrUnsorted = fmt.Errorf("compose: %w: out-arcs not sorted by input label", core.ErrConfig)

	// ErrTooManyItems indicates that the chart exceeded WithMaxItems.
	ErrTooManyItems = fmt.Errorf("compose: %w: too many chart items", core.ErrConfig)

	// ErrTooManyStates indicates that Expand exceeded WithMaxStates.
	ErrTooManyStates = fmt.Errorf("compose: %w: too many states", core.ErrConfig)

	// ErrCombiner indicates a combiner whose weight type does not match the automata.
	ErrCombiner = fmt.Errorf("compose: %w: combiner weight type mismatch", core.ErrConfig)
)
