package phonon

import (
	"errors"
	"fmt"
)

// Kind classifies a fatal phonon error.
type Kind string

const (
	// KindConfig marks an invalid supercell, k-point or mode configuration.
	KindConfig Kind = "config"
	// KindLookup marks a unit-cell state with no matching supercell state.
	KindLookup Kind = "lookup"
	// KindRemap marks a plane wave that could not be placed in the supercell basis.
	KindRemap Kind = "remap"
	// KindCompleteness marks a supercell state with the wrong number of contributors.
	KindCompleteness Kind = "completeness"
	// KindHermiticity marks a cell map whose cells do not pair up under negation.
	KindHermiticity Kind = "hermiticity"
	// KindEvaluate marks a failed electronic or ionic evaluation.
	KindEvaluate Kind = "evaluate"
	// KindIO marks a failure reading or writing output files.
	KindIO Kind = "io"
	// KindTransport marks a failed collective operation between ranks.
	KindTransport Kind = "transport"
)

// Setup and assembly errors.
var (
	// ErrNoSupercell indicates a supercell count that is zero or negative.
	ErrNoSupercell = errors.New("phonon: supercell counts must be positive")

	// ErrSymmetries indicates that symmetries were left enabled.
	ErrSymmetries = errors.New("phonon: symmetries must be disabled")

	// ErrKMesh indicates a k-point list that is not a single point.
	ErrKMesh = errors.New("phonon: k-point list must contain exactly one point")

	// ErrNotGamma indicates a single k-point away from the zone centre.
	ErrNotGamma = errors.New("phonon: k-point must be Γ")

	// ErrFolding indicates a k folding not divisible by the supercell counts.
	ErrFolding = errors.New("phonon: k folding not a multiple of the supercell count")

	// ErrStateLookup indicates a unit-cell state with no supercell image.
	ErrStateLookup = errors.New("phonon: no supercell state for unit-cell state")

	// ErrBasisRemap indicates a unit-cell plane wave outside the supercell basis.
	ErrBasisRemap = errors.New("phonon: unit-cell plane wave missing from supercell basis")

	// ErrIncompleteMap indicates a supercell state with the wrong contributor count.
	ErrIncompleteMap = errors.New("phonon: wrong number of states folding into supercell state")

	// ErrHermitianPairs indicates a cell map not closed under R -> -R.
	ErrHermitianPairs = errors.New("phonon: cell map not closed under negation")

	// ErrModeOrder indicates modes not ordered by species, atom and direction.
	ErrModeOrder = errors.New("phonon: modes not ordered by atom then direction")
)

// Error is a fatal failure of one phonon operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func fail(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
