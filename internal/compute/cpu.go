package compute

import (
	"runtime"
	"sync"
)

// minChunk keeps small band counts on one goroutine.
const minChunk = 4

type CPUBackend struct {
	workers int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers: runtime.NumCPU(),
	}
}

func (c *CPUBackend) Name() string { return "threaded" }

func (c *CPUBackend) ParallelFor(n int, fn func(start, end int)) {
	if n <= minChunk || c.workers <= 1 {
		fn(0, n)
		return
	}

	workers := c.workers
	if n/minChunk < workers {
		workers = n / minChunk
	}
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			fn(s, e)
		}(start, end)
	}
	wg.Wait()
}
