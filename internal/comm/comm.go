package comm

import (
	"errors"
	"fmt"
)

var (
	ErrAborted  = errors.New("comm: collective aborted by another rank")
	ErrBadRoot  = errors.New("comm: broadcast root out of range")
	ErrBadRanks = errors.New("comm: rank count must be positive")
)

type Comm interface {
	Rank() int
	Size() int
	BcastFloat(buf []float64, root int) error
	BcastComplex(buf []complex128, root int) error
	AllReduceSumFloat(buf []float64) error
}

// IsHead reports whether c is the rank responsible for output.
func IsHead(c Comm) bool { return c.Rank() == 0 }

// Single is the communicator of a run with exactly one rank.
type Single struct{}

func (Single) Rank() int { return 0 }
func (Single) Size() int { return 1 }

func (Single) BcastFloat(_ []float64, root int) error      { return checkRoot(root, 1) }
func (Single) BcastComplex(_ []complex128, root int) error { return checkRoot(root, 1) }
func (Single) AllReduceSumFloat(_ []float64) error         { return nil }

func checkRoot(root, size int) error {
	if root < 0 || root >= size {
		return fmt.Errorf("%w: %d of %d", ErrBadRoot, root, size)
	}
	return nil
}
