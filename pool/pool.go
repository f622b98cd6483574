// Package pool recycles world objects per prototype so the track can stream forever
// without constructing geometry every time a segment or item appears
package pool

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"sort"
)

var (
	// ErrUnknownInstance is returned when a released item's prototype is not registered
	ErrUnknownInstance = errors.New("pool: instance does not belong to a known prototype")

	// ErrUnknownPrototype is returned when acquiring from an unregistered prototype
	ErrUnknownPrototype = errors.New("pool: unknown prototype")

	// ErrNotAcquired is returned when releasing an item that is already parked
	ErrNotAcquired = errors.New("pool: instance is not checked out")
)

// Item is the contract a pooled instance satisfies
// The prototype id is stored on the instance at construction, never derived from its name
type Item interface {
	comparable
	Prototype() string
	SetActive(active bool)
}

// Hooks wires the pool to the scene that owns the instances
type Hooks[T Item] struct {
	// New constructs a fresh instance of prototype
	New func(prototype string) T

	// Park reattaches a released instance to the pool's holding scope
	Park func(item T)

	// Destroy discards an instance that cannot be routed back to a queue
	Destroy func(item T)
}

// Stats is the per-prototype population
type Stats struct {
	Constructed int
	Active      int
	Pooled      int
}

// Pool maps prototype ids to queues of inactive instances
// Pools only grow: acquiring from an empty queue constructs a new instance
type Pool[T Item] struct {
	hooks  Hooks[T]
	logger *log.Logger

	queues map[string]*queue[T]
	stats  map[string]*Stats
	out    map[T]struct{}
	// active lists checked-out items in acquisition order
	active []T
}

// New creates an empty pool
func New[T Item](hooks Hooks[T], logger *log.Logger) *Pool[T] {
	if logger == nil {
		logger = log.Default()
	}
	return &Pool[T]{
		hooks:  hooks,
		logger: logger,
		queues: make(map[string]*queue[T]),
		stats:  make(map[string]*Stats),
		out:    make(map[T]struct{}),
	}
}

// Register declares a prototype and pre-constructs prewarm parked instances
// Registering an existing prototype only adds the extra instances
func (p *Pool[T]) Register(prototype string, prewarm int) {
	q, ok := p.queues[prototype]
	if !ok {
		q = &queue[T]{}
		p.queues[prototype] = q
		p.stats[prototype] = &Stats{}
	}
	st := p.stats[prototype]
	for i := 0; i < prewarm; i++ {
		item := p.hooks.New(prototype)
		item.SetActive(false)
		if p.hooks.Park != nil {
			p.hooks.Park(item)
		}
		q.push(item)
		st.Constructed++
		st.Pooled++
	}
}

// Acquire returns an active instance of prototype
// Position and rotation keep whatever the instance had when it was released
func (p *Pool[T]) Acquire(prototype string) (T, error) {
	var zero T
	q, ok := p.queues[prototype]
	if !ok {
		return zero, fmt.Errorf("%w %q", ErrUnknownPrototype, prototype)
	}
	st := p.stats[prototype]

	item, ok := q.pop()
	if ok {
		st.Pooled--
	} else {
		item = p.hooks.New(prototype)
		st.Constructed++
	}
	item.SetActive(true)
	st.Active++
	p.out[item] = struct{}{}
	p.active = append(p.active, item)
	return item, nil
}

// Release deactivates item, parks it and queues it behind its prototype
// Items whose prototype is unknown are destroyed rather than leaked into another queue
func (p *Pool[T]) Release(item T) error {
	prototype := item.Prototype()
	q, ok := p.queues[prototype]
	if !ok {
		p.logger.Printf("pool: discarding unknown instance of prototype %q", prototype)
		item.SetActive(false)
		if p.hooks.Destroy != nil {
			p.hooks.Destroy(item)
		}
		return fmt.Errorf("%w: %q", ErrUnknownInstance, prototype)
	}
	if _, checkedOut := p.out[item]; !checkedOut {
		return ErrNotAcquired
	}
	delete(p.out, item)
	if i := slices.Index(p.active, item); i >= 0 {
		p.active = slices.Delete(p.active, i, i+1)
	}

	item.SetActive(false)
	if p.hooks.Park != nil {
		p.hooks.Park(item)
	}
	q.push(item)

	st := p.stats[prototype]
	st.Active--
	st.Pooled++
	return nil
}

// CheckedOut reports whether item is currently handed out
func (p *Pool[T]) CheckedOut(item T) bool {
	_, ok := p.out[item]
	return ok
}

// Stats returns the population of prototype
func (p *Pool[T]) Stats(prototype string) Stats {
	if st, ok := p.stats[prototype]; ok {
		return *st
	}
	return Stats{}
}

// Total sums Stats over every prototype
func (p *Pool[T]) Total() Stats {
	var total Stats
	for _, st := range p.stats {
		total.Constructed += st.Constructed
		total.Active += st.Active
		total.Pooled += st.Pooled
	}
	return total
}

// Prototypes returns registered prototype ids in sorted order
func (p *Pool[T]) Prototypes() []string {
	ids := make([]string, 0, len(p.queues))
	for id := range p.queues {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EachActive calls fn for every checked-out instance in acquisition order
// fn may release the item it is given
func (p *Pool[T]) EachActive(fn func(item T)) {
	for _, item := range slices.Clone(p.active) {
		fn(item)
	}
}
