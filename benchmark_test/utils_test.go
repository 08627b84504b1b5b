package benchmark_test

import (
	"fmt"
	"math/rand"
)

// orderedMap is the baseline the registry is measured against: a plain
// name-to-bytes map plus an insertion-order slice, the conventional way
// to hold a dynamic record with stable iteration order.
type orderedMap struct {
	values map[string][]byte
	order  []string
}

func newOrderedMap() *orderedMap {
	return &orderedMap{values: make(map[string][]byte)}
}

func (m *orderedMap) Set(name string, val []byte) {
	if _, ok := m.values[name]; !ok {
		m.order = append(m.order, name)
	}
	m.values[name] = append([]byte(nil), val...)
}

func (m *orderedMap) Get(name string) ([]byte, bool) {
	v, ok := m.values[name]
	return v, ok
}

func (m *orderedMap) Remove(name string) {
	if _, ok := m.values[name]; !ok {
		return
	}
	delete(m.values, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func fieldNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("field-%04d", i)
	}
	return names
}

func randomValues(rng *rand.Rand, n, size int) [][]byte {
	vals := make([][]byte, n)
	for i := range vals {
		vals[i] = make([]byte, size)
		rng.Read(vals[i])
	}
	return vals
}
