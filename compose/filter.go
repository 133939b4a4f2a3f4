package compose

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/hypergraph/core"
)

// Filter selects how epsilon moves of the two sides may interleave.
type Filter uint8

const (
	// FilterSequence lets the left side finish its epsilon moves before the right starts.
	FilterSequence Filter = iota
	// FilterMatch additionally pairs a left output-epsilon with a right input-epsilon.
	FilterMatch
	// FilterNone allows every interleaving; paths may repeat.
	FilterNone
)

func (f Filter) String() string {
	switch f {
	case FilterSequence:
		return "sequence"
	case FilterMatch:
		return "match"
	case FilterNone:
		return "none"
	}
	return fmt.Sprintf("Filter(%d)", uint8(f))
}

// ParseFilter reads "sequence", "match" or "none".
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sequence", "":
		return FilterSequence, nil
	case "match":
		return FilterMatch, nil
	case "none":
		return FilterNone, nil
	}
	return 0, fmt.Errorf("compose: %w: unknown filter %q", core.ErrConfig, s)
}

// filterState is the epsilon filter's memory within a composite state.
type filterState uint8

const (
	normal filterState = iota
	favorLeft
	favorRight
)

// leftEpsilon reports whether a left output-epsilon move is allowed in s, and the next state.
func (f Filter) leftEpsilon(s filterState) (filterState, bool) {
	switch f {
	case FilterSequence:
		return normal, s == normal
	case FilterMatch:
		return favorLeft, s != favorRight
	}
	return normal, true
}

// rightEpsilon reports whether a right input-epsilon move is allowed in s.
func (f Filter) rightEpsilon(s filterState) (filterState, bool) {
	switch f {
	case FilterSequence:
		return favorRight, true
	case FilterMatch:
		return favorRight, s != favorLeft
	}
	return normal, true
}

// combined reports whether a joint left-epsilon/right-epsilon move is allowed in s.
func (f Filter) combined(s filterState) bool {
	return f == FilterMatch && s == normal
}
