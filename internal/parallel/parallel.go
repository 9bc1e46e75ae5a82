// Package parallel fans row-shaped work out across goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum rows per goroutine to avoid overhead.
}

// DefaultConfig returns defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 16,
	}
}

// Sequential returns a Config that never spawns goroutines.
func Sequential() Config {
	return Config{NumWorkers: 1, MinChunkSize: 1}
}

// Range calls f(lo, hi) over disjoint chunks covering [0, n).
// Chunks run concurrently when cfg allows it and n is large enough;
// otherwise f is called once with the whole range. Range returns after
// every chunk has finished.
func Range(n int, cfg Config, f func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if !cfg.Enabled || cfg.NumWorkers < 2 || n < 2*cfg.MinChunkSize {
		f(0, n)
		return
	}

	chunk := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize)

	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := min(lo+chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			f(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// For executes f(i) for i in [0, n), chunked as in Range.
func For(n int, cfg Config, f func(i int)) {
	Range(n, cfg, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			f(i)
		}
	})
}
