// Package systems provides the flock core: steering math, the shared agent
// registry, and the per-chicken behavior controller, along with the
// collaborator interfaces the controller is wired against.
package systems

import (
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"
)

// Agent is a registered flock member as seen by its peers. Y is up; the yard
// floor is the XZ plane.
type Agent interface {
	ID() uuid.UUID
	Position() r3.Vec
	Forward() r3.Vec
}

// Registry is the shared set of live agents. All controllers read it every
// tick; membership changes only on spawn and despawn. Reads take the shared
// lock so per-agent ticks may run in parallel, as long as Register and
// Deregister happen outside the tick phase.
type Registry struct {
	mu     sync.RWMutex
	agents map[uuid.UUID]Agent
}

// NewRegistry creates an empty agent registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[uuid.UUID]Agent)}
}

// Register adds an agent. Registering the same agent twice is a no-op, so
// membership stays exact.
func (r *Registry) Register(a Agent) {
	r.mu.Lock()
	r.agents[a.ID()] = a
	r.mu.Unlock()
}

// Deregister removes an agent. Must be called before the agent's backing
// storage is invalidated.
func (r *Registry) Deregister(a Agent) {
	r.mu.Lock()
	delete(r.agents, a.ID())
	r.mu.Unlock()
}

// Len returns the number of live agents.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// CountWithin returns how many agents other than self lie within radius of
// self's position.
func (r *Registry) CountWithin(self Agent, radius float64) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos := self.Position()
	selfID := self.ID()
	radiusSq := radius * radius
	count := 0
	for id, a := range r.agents {
		if id == selfID {
			continue
		}
		if r3.Norm2(r3.Sub(a.Position(), pos)) <= radiusSq {
			count++
		}
	}
	return count
}

// AllWithin returns every agent other than self within radius of self's
// position. The returned slice is freshly allocated; holding it past a
// despawn boundary is not safe.
func (r *Registry) AllWithin(self Agent, radius float64) []Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pos := self.Position()
	selfID := self.ID()
	radiusSq := radius * radius
	var out []Agent
	for id, a := range r.agents {
		if id == selfID {
			continue
		}
		if r3.Norm2(r3.Sub(a.Position(), pos)) <= radiusSq {
			out = append(out, a)
		}
	}
	return out
}
