// Package parallel provides a fork-join helper used to split independent
// per-index work across CPUs.
package parallel

import (
	"runtime"
	"sync"
)

// Execute process in parallel the work function over [0, nbIterations).
// Each chunk writes to distinct output slots, so no synchronization beyond
// the final join is needed.
func Execute(nbIterations int, work func(int, int), maxCpus ...int) {
	nbTasks := runtime.NumCPU()
	if len(maxCpus) == 1 {
		nbTasks = maxCpus[0]
	}
	nbIterationsPerCpus := nbIterations / nbTasks

	// more CPUs than tasks: a CPU will work on exactly one iteration
	if nbIterationsPerCpus < 1 {
		nbIterationsPerCpus = 1
		nbTasks = nbIterations
	}

	var wg sync.WaitGroup

	extraTasks := nbIterations - (nbTasks * nbIterationsPerCpus)
	extraTasksOffset := 0

	for i := 0; i < nbTasks; i++ {
		wg.Add(1)
		start := i*nbIterationsPerCpus + extraTasksOffset
		end := start + nbIterationsPerCpus
		if extraTasks > 0 {
			end++
			extraTasks--
			extraTasksOffset++
		}
		go func() {
			work(start, end)
			wg.Done()
		}()
	}

	wg.Wait()
}
