// Package compute provides the kernels behind supercell state synthesis.
//
// A single backend is selected once at process start:
//
//   - threaded: splits band loops across goroutines
//   - serial: runs everything on the calling goroutine
//
// The serial backend exists for runs where the surrounding code is not
// reentrant (e.g. several in-process ranks already saturating the CPU):
//
//	compute.Select(cfg.Threaded)
//	compute.ScatterAxpy(index, alpha, x, y)
package compute
