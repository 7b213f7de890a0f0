package compute

type Backend interface {
	Name() string
	// ParallelFor runs fn over [0, n) split into contiguous chunks.
	ParallelFor(n int, fn func(start, end int))
}

var activeBackend Backend = NewCPUBackend()

// Select fixes the backend for the life of the process.
func Select(threaded bool) {
	if threaded {
		activeBackend = NewCPUBackend()
		return
	}
	activeBackend = SerialBackend{}
}

func GetBackend() Backend {
	return activeBackend
}

// ScatterAxpy performs y[index[i]] += alpha·x[i] for every i.
func ScatterAxpy(index []int, alpha float64, x, y []complex128) {
	a := complex(alpha, 0)
	for i, j := range index {
		y[j] += a * x[i]
	}
}

// ScatterBands applies ScatterAxpy to nBands band pairs, dispatching over the
// active backend. src(b) and dst(b) return the coefficient slices of band b.
func ScatterBands(nBands int, index []int, alpha float64, src, dst func(b int) []complex128) {
	activeBackend.ParallelFor(nBands, func(start, end int) {
		for b := start; b < end; b++ {
			ScatterAxpy(index, alpha, src(b), dst(b))
		}
	})
}

// SerialBackend runs every loop on the calling goroutine.
type SerialBackend struct{}

func (SerialBackend) Name() string { return "serial" }

func (SerialBackend) ParallelFor(n int, fn func(start, end int)) { fn(0, n) }
