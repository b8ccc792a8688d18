package game

import (
	"runtime"
	"sync"
)

// parallelThreshold is the minimum flock size for the parallel tick phase.
// Below this, single-threaded is faster than the goroutine overhead.
const parallelThreshold = 64

// workChunk is a range of units for a worker to tick.
type workChunk struct {
	start, end int
	dt         float64
}

// parallelState holds the persistent worker pool for the controller tick
// phase. Controllers only read the frame's pose snapshots and write their
// own unit, so chunks never contend; the registry's shared lock covers the
// membership map.
type parallelState struct {
	numWorkers int

	workChan chan workChunk
	doneChan chan struct{}
	stopChan chan struct{}
	wg       sync.WaitGroup
	running  bool
}

func newParallelState() *parallelState {
	return &parallelState{numWorkers: runtime.GOMAXPROCS(0)}
}

// startWorkers launches the persistent worker goroutines.
func (p *parallelState) startWorkers(g *Game) {
	if p.running {
		return
	}

	p.workChan = make(chan workChunk, p.numWorkers)
	p.doneChan = make(chan struct{}, p.numWorkers)
	p.stopChan = make(chan struct{})
	p.running = true

	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker(g)
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

func (p *parallelState) worker(g *Game) {
	defer p.wg.Done()
	for {
		select {
		case <-p.stopChan:
			return
		case chunk, ok := <-p.workChan:
			if !ok {
				return
			}
			g.tickChunk(chunk.start, chunk.end, chunk.dt)
			p.doneChan <- struct{}{}
		}
	}
}

// tickControllers runs every controller for this step, parallel when the
// flock is large enough.
func (g *Game) tickControllers(dt float64) {
	n := len(g.units)
	if n == 0 {
		return
	}
	if n < parallelThreshold {
		g.tickChunk(0, n, dt)
		return
	}

	if !g.parallel.running {
		g.parallel.startWorkers(g)
	}

	numWorkers := g.parallel.numWorkers
	chunkSize := (n + numWorkers - 1) / numWorkers

	dispatched := 0
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		g.parallel.workChan <- workChunk{start: start, end: end, dt: dt}
		dispatched++
	}
	for i := 0; i < dispatched; i++ {
		<-g.parallel.doneChan
	}
}

// tickChunk ticks the units in [start, end).
func (g *Game) tickChunk(start, end int, dt float64) {
	for i := start; i < end; i++ {
		g.units[i].ctrl.Tick(dt)
	}
}
