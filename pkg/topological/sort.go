package topological

import (
	"fmt"
	"slices"

	"golang.org/x/exp/constraints"
)

var ErrCycleDetected = fmt.Errorf("cycle detected")

// Sort orders values so that each value comes after its dependencies.
func Sort[T constraints.Ordered](values []T, depFunc func(T) []T) ([]T, error) {
	return SortFunc(values, func(val T) T { return val }, depFunc)
}

// SortFunc orders values so that each value comes after the values whose keys
// depFunc returns. Values that are ready at the same time keep their input
// order. Dependencies on keys missing from values are ignored.
func SortFunc[T any, K constraints.Ordered](values []T, keyFunc func(T) K, depFunc func(T) []K) ([]T, error) {
	index := make(map[K]int, len(values))
	for i, val := range values {
		index[keyFunc(val)] = i
	}

	pending := make([]int, len(values))
	dependents := make([][]int, len(values))
	for i, val := range values {
		seen := make(map[K]struct{})
		for _, dep := range depFunc(val) {
			j, ok := index[dep]
			if !ok {
				continue
			}

			if _, ok := seen[dep]; ok {
				continue
			}
			seen[dep] = struct{}{}

			pending[i]++
			dependents[j] = append(dependents[j], i)
		}
	}

	var ready []int
	for i := range values {
		if pending[i] == 0 {
			ready = append(ready, i)
		}
	}

	list := make([]T, 0, len(values))
	for len(ready) > 0 {
		var i int
		i, ready = ready[0], ready[1:]
		list = append(list, values[i])

		for _, dep := range dependents[i] {
			pending[dep]--
			if pending[dep] == 0 {
				ready = append(ready, dep)
				slices.Sort(ready)
			}
		}
	}

	if len(list) < len(values) {
		var cycle []K
		for i, val := range values {
			if pending[i] > 0 {
				cycle = append(cycle, keyFunc(val))
			}
		}
		slices.Sort(cycle)

		return nil, fmt.Errorf("%w between %v", ErrCycleDetected, cycle)
	}

	return list, nil
}
