package compose

import (
	"fmt"
	"log/slog"

	"github.com/katalvlaran/hypergraph/core"
	"github.com/katalvlaran/hypergraph/semiring"
	"github.com/katalvlaran/hypergraph/vocab"
)

// ExpandOption configures Expand.
type ExpandOption func(*expandOptions)

type expandOptions struct {
	maxStates int
}

// WithMaxStates bounds the number of automaton states Expand visits; 0 means no bound.
// Panics if n < 0.
func WithMaxStates(n int) ExpandOption {
	if n < 0 {
		panic("compose: WithMaxStates(n<0)")
	}
	return func(o *expandOptions) { o.maxStates = n }
}

// Expand materializes the part of a reachable from its start state as an FSM with
// first-tail out-arcs sorted by input label. Several final states are joined by
// epsilon arcs into one fresh final state.
//
// Errors: ErrNilInput, ErrTooManyStates.
func Expand[W semiring.Weight[W]](a Automaton[W], opts ...ExpandOption) (*core.Hypergraph[W], error) {
	if a == nil {
		return nil, ErrNilInput
	}
	o := expandOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	res := core.New[W](a.Vocab(), core.WithProperties(core.StoreFirstTailOutArcs|core.CanonicalLex))
	start := a.Start()
	if start == core.NoState {
		res.SortOutArcs()
		return res, nil
	}

	ids := make(map[core.StateID]core.StateID)
	var queue, finals []core.StateID
	visit := func(s core.StateID) (core.StateID, error) {
		if id, ok := ids[s]; ok {
			return id, nil
		}
		if o.maxStates > 0 && len(ids) >= o.maxStates {
			return core.NoState, fmt.Errorf("%w: %d", ErrTooManyStates, o.maxStates)
		}
		id := res.AddState()
		ids[s] = id
		queue = append(queue, s)
		return id, nil
	}
	first, err := visit(start)
	if err != nil {
		return nil, err
	}
	if err = res.SetStart(first); err != nil {
		return nil, err
	}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		src := ids[s]
		if a.Final(s) {
			finals = append(finals, src)
		}
		for _, t := range a.Out(s) {
			dst, err := visit(t.Next)
			if err != nil {
				return nil, err
			}
			if _, err = res.AddFSMArc(src, dst, t.Label, t.Weight); err != nil {
				return nil, err
			}
		}
	}

	switch len(finals) {
	case 0:
	case 1:
		err = res.SetFinal(finals[0])
	default:
		final := res.AddState()
		for _, f := range finals {
			if _, err = res.AddFSMArc(f, final, core.InputLabel(vocab.Epsilon), semiring.One[W]()); err != nil {
				return nil, err
			}
		}
		err = res.SetFinal(final)
	}
	if err != nil {
		return nil, err
	}
	res.SortOutArcs()
	slog.Debug("compose expand", "states", res.NumStates(), "arcs", res.NumArcs(), "finals", len(finals))
	return res, nil
}
