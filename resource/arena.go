package resource

import "fmt"

// Key is a generation-checked index into an arena. The zero Key never refers to a live entry.
type Key struct {
	index      uint32
	generation uint32
}

func (k Key) IsZero() bool {
	return k.generation == 0
}

func (k Key) String() string {
	return fmt.Sprintf("%d@%d", k.index, k.generation)
}

type arenaEntry[T any] struct {
	value      T
	generation uint32
	occupied   bool
}

// arena is a dense slot list that hands out generational keys. Removing an entry bumps the slot's
// generation so that keys issued before the removal no longer resolve, even after the slot is reused.
type arena[T any] struct {
	entries []arenaEntry[T]
	free    []uint32
	live    int
}

func (a *arena[T]) insert(value T) Key {
	a.live++

	if len(a.free) > 0 {
		index := a.free[len(a.free)-1]
		a.free = a.free[:len(a.free)-1]

		entry := &a.entries[index]
		entry.value = value
		entry.occupied = true
		return Key{index: index, generation: entry.generation}
	}

	a.entries = append(a.entries, arenaEntry[T]{
		value:      value,
		generation: 1,
		occupied:   true,
	})
	return Key{index: uint32(len(a.entries) - 1), generation: 1}
}

func (a *arena[T]) get(key Key) (*T, bool) {
	if key.IsZero() || int(key.index) >= len(a.entries) {
		return nil, false
	}

	entry := &a.entries[key.index]
	if !entry.occupied || entry.generation != key.generation {
		return nil, false
	}

	return &entry.value, true
}

// take removes the entry and returns its value. A key can be taken at most once.
func (a *arena[T]) take(key Key) (T, bool) {
	var zero T
	if key.IsZero() || int(key.index) >= len(a.entries) {
		return zero, false
	}

	entry := &a.entries[key.index]
	if !entry.occupied || entry.generation != key.generation {
		return zero, false
	}

	value := entry.value
	entry.value = zero
	entry.occupied = false
	entry.generation++
	a.free = append(a.free, key.index)
	a.live--

	return value, true
}

func (a *arena[T]) len() int {
	return a.live
}

// keys returns the keys of every live entry in slot order
func (a *arena[T]) keys() []Key {
	keys := make([]Key, 0, a.live)
	for i := range a.entries {
		if a.entries[i].occupied {
			keys = append(keys, Key{index: uint32(i), generation: a.entries[i].generation})
		}
	}
	return keys
}
