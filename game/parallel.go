package game

import (
	"runtime"
	"sync"

	"github.com/pthm-cable/boids/systems"
)

// parallelThreshold is the default minimum agent count for parallel processing.
// Below this, single-threaded is faster due to goroutine overhead.
const parallelThreshold = 64

// workChunk is a range of agent ids for one worker and the stage to run over it.
type workChunk struct {
	stage      systems.Kernel
	start, end int
}

// parallelState runs per-agent stages over index ranges on a persistent worker pool.
// Every call to run is a barrier: it returns only after all chunks finished.
type parallelState struct {
	frame      *systems.Frame
	scratches  []*systems.Scratch
	numWorkers int
	threshold  int

	// Worker pool channels
	workChan chan workChunk // sends work to workers
	doneChan chan struct{}  // workers signal completion
	stopChan chan struct{}  // signals workers to exit
	wg       sync.WaitGroup // tracks active workers
	running  bool           // true if workers are running
}

// newParallelState sizes the pool. workers <= 0 uses GOMAXPROCS.
func newParallelState(frame *systems.Frame, workers, threshold int) *parallelState {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if threshold <= 0 {
		threshold = parallelThreshold
	}
	scratches := make([]*systems.Scratch, workers)
	for i := range scratches {
		scratches[i] = systems.NewScratch(frame.MaxNeighbors)
	}
	return &parallelState{
		frame:      frame,
		numWorkers: workers,
		threshold:  threshold,
		scratches:  scratches,
	}
}

// startWorkers launches persistent worker goroutines.
func (p *parallelState) startWorkers() {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
}

// stopWorkers signals all workers to exit and waits for them.
func (p *parallelState) stopWorkers() {
	if !p.running {
		return
	}

	close(p.stopChan)
	p.wg.Wait()
	close(p.workChan)
	close(p.doneChan)
	p.running = false
}

// worker runs in a goroutine, processing chunks until stopped.
func (p *parallelState) worker(workerID int) {
	defer p.wg.Done()
	scratch := p.scratches[workerID]

	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			chunk.stage(p.frame, chunk.start, chunk.end, scratch)
			p.doneChan <- struct{}{}
		}
	}
}

// run applies stage to ids [0, n), serially for small n or a single worker.
func (p *parallelState) run(stage systems.Kernel, n int) {
	if n == 0 {
		return
	}
	if n < p.threshold || p.numWorkers == 1 {
		stage(p.frame, 0, n, p.scratches[0])
		return
	}

	if !p.running {
		p.startWorkers()
	}

	chunkSize := (n + p.numWorkers - 1) / p.numWorkers

	// Dispatch chunks to workers
	chunksDispatched := 0
	for w := 0; w < p.numWorkers; w++ {
		start := w * chunkSize
		end := min(start+chunkSize, n)
		if start >= end {
			continue
		}
		p.workChan <- workChunk{stage: stage, start: start, end: end}
		chunksDispatched++
	}

	// Wait for all chunks to complete
	for i := 0; i < chunksDispatched; i++ {
		<-p.doneChan
	}
}

// drainCounters sums and resets the per-worker kernel counters.
func (p *parallelState) drainCounters() (coincident, steered int) {
	for _, s := range p.scratches {
		coincident += s.Coincident
		steered += s.Steered
		s.Reset()
	}
	return coincident, steered
}
