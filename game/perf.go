package game

import (
	"time"
)

// phaseTimer accumulates durations for named simulation phases
// between reports.
type phaseTimer struct {
	order  []string
	totals map[string]time.Duration
	counts map[string]int
}

func newPhaseTimer() *phaseTimer {
	return &phaseTimer{
		totals: make(map[string]time.Duration),
		counts: make(map[string]int),
	}
}

// Observe records a single sample for the named phase.
func (p *phaseTimer) Observe(name string, d time.Duration) {
	if _, ok := p.totals[name]; !ok {
		p.order = append(p.order, name)
	}
	p.totals[name] += d
	p.counts[name]++
}

// Report logs mean phase durations since the last report and resets
// the accumulators.
func (p *phaseTimer) Report(tick int64) {
	Logf("=== Timings @ tick %d ===", tick)
	var frame time.Duration
	for _, name := range p.order {
		n := p.counts[name]
		if n == 0 {
			continue
		}
		mean := p.totals[name] / time.Duration(n)
		frame += mean
		Logf("  %-10s %v", name, mean)
	}
	Logf("  %-10s %v", "frame", frame)
	for _, name := range p.order {
		p.totals[name] = 0
		p.counts[name] = 0
	}
}
