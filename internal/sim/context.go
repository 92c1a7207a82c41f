package sim

import (
	"sort"
	"sync"

	"github.com/RaLLy08/orbital-motion/internal/flight"
)

// Registry tracks the live vehicles of a scene.
type Registry struct {
	mu       sync.RWMutex
	vehicles map[flight.ID]*flight.Vehicle
}

func NewRegistry() *Registry {
	return &Registry{vehicles: make(map[flight.ID]*flight.Vehicle)}
}

func (r *Registry) Add(v *flight.Vehicle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vehicles[v.ID()] = v
}

// Remove reports whether id was registered.
func (r *Registry) Remove(id flight.ID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.vehicles[id]
	delete(r.vehicles, id)
	return ok
}

func (r *Registry) Get(id flight.ID) (*flight.Vehicle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.vehicles[id]
	return v, ok
}

// Vehicles returns the registered vehicles ordered by ID.
func (r *Registry) Vehicles() []*flight.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*flight.Vehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.vehicles)
}

// Context is a live scene: the registry of vehicles and the clock that
// drives them. Vehicles are only ever updated from Frame, which holds the
// context lock.
type Context struct {
	Registry *Registry
	Clock    *Clock

	mu        sync.Mutex
	tick      int
	observers map[flight.ID][]Observer
}

func NewContext(clock *Clock) *Context {
	return &Context{
		Registry:  NewRegistry(),
		Clock:     clock,
		observers: make(map[flight.ID][]Observer),
	}
}

// Launch registers v and notifies obs of its state on every tick.
func (c *Context) Launch(v *flight.Vehicle, obs ...Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Registry.Add(v)
	if len(obs) > 0 {
		c.observers[v.ID()] = append(c.observers[v.ID()], obs...)
	}
	for _, o := range obs {
		o.OnStep(c.tick, v.State())
	}
}

// Remove drops a vehicle and its observers.
func (c *Context) Remove(id flight.ID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.observers, id)
	return c.Registry.Remove(id)
}

// Frame advances the clock by delta seconds of real time and steps every
// vehicle once per whole tick. Observers only hear about vehicles that were
// still in flight.
func (c *Context) Frame(delta float64) Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := c.Clock.Advance(delta)
	vehicles := c.Registry.Vehicles()
	for i := 0; i < f.Ticks; i++ {
		c.tick++
		for _, v := range vehicles {
			settled := v.Terminal()
			v.Update(c.Clock.TickSize)
			if settled {
				continue
			}
			for _, o := range c.observers[v.ID()] {
				o.OnStep(c.tick, v.State())
			}
		}
	}
	return f
}

// Snapshots returns an interpolated view of every vehicle.
func (c *Context) Snapshots(alpha float64) []flight.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	vehicles := c.Registry.Vehicles()
	out := make([]flight.Snapshot, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, v.Snapshot(alpha))
	}
	return out
}

// Tick is the number of ticks simulated so far.
func (c *Context) Tick() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tick
}
