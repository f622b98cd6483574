package status

import "sync/atomic"

// Registry is the central metrics facade
// Components cache pointers at wiring time and write straight to the atomics each tick
type Registry struct {
	Bools   *MetricMap[atomic.Bool]
	Ints    *MetricMap[atomic.Int64]
	Floats  *MetricMap[AtomicFloat]
	Strings *MetricMap[AtomicString]
}

// NewRegistry creates an initialized Registry
func NewRegistry() *Registry {
	return &Registry{
		Bools:   NewMetricMap[atomic.Bool](),
		Ints:    NewMetricMap[atomic.Int64](),
		Floats:  NewMetricMap[AtomicFloat](),
		Strings: NewMetricMap[AtomicString](),
	}
}

// TotalCount returns total metrics across all types
func (r *Registry) TotalCount() int {
	return r.Bools.Count() + r.Ints.Count() + r.Floats.Count() + r.Strings.Count()
}

// Snapshot is a point-in-time copy of every metric, keyed by metric name
type Snapshot struct {
	Ints    map[string]int64   `msgpack:"ints"`
	Floats  map[string]float64 `msgpack:"floats"`
	Bools   map[string]bool    `msgpack:"bools"`
	Strings map[string]string  `msgpack:"strings"`
}

// Snapshot copies the current value of every registered metric
func (r *Registry) Snapshot() Snapshot {
	s := Snapshot{
		Ints:    make(map[string]int64, r.Ints.Count()),
		Floats:  make(map[string]float64, r.Floats.Count()),
		Bools:   make(map[string]bool, r.Bools.Count()),
		Strings: make(map[string]string, r.Strings.Count()),
	}
	r.Ints.Range(func(key string, ptr *atomic.Int64) {
		s.Ints[key] = ptr.Load()
	})
	r.Floats.Range(func(key string, ptr *AtomicFloat) {
		s.Floats[key] = ptr.Get()
	})
	r.Bools.Range(func(key string, ptr *atomic.Bool) {
		s.Bools[key] = ptr.Load()
	})
	r.Strings.Range(func(key string, ptr *AtomicString) {
		s.Strings[key] = ptr.Load()
	})
	return s
}
