package status

import (
	"sort"
	"strings"
	"sync"
	"sync/atomic"
)

// MetricMap hands out one stable *T per metric name
// Components resolve names once at wiring time and then touch only the pointer
type MetricMap[T any] struct {
	items sync.Map // string -> *T
	count atomic.Int64
}

// NewMetricMap creates an empty map
func NewMetricMap[T any]() *MetricMap[T] {
	return &MetricMap[T]{}
}

// Get returns the metric for key, registering a zero value on first use
func (m *MetricMap[T]) Get(key string) *T {
	if ptr, ok := m.items.Load(key); ok {
		return ptr.(*T)
	}
	ptr, loaded := m.items.LoadOrStore(key, new(T))
	if !loaded {
		m.count.Add(1)
	}
	return ptr.(*T)
}

// Keys returns the registered names starting with prefix, sorted
func (m *MetricMap[T]) Keys(prefix string) []string {
	var keys []string
	m.items.Range(func(k, _ any) bool {
		if key := k.(string); strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
		return true
	})
	sort.Strings(keys)
	return keys
}

// Range visits every metric in key order
func (m *MetricMap[T]) Range(fn func(key string, ptr *T)) {
	for _, key := range m.Keys("") {
		if ptr, ok := m.items.Load(key); ok {
			fn(key, ptr.(*T))
		}
	}
}

// Count returns the number of registered metrics
func (m *MetricMap[T]) Count() int {
	return int(m.count.Load())
}
