package store

// Handle identifies an entity slot within one store.
type Handle int

// arena is a slot allocator with a free list.
type arena[T any] struct {
	slots []*T
	free  []Handle
}

func (a *arena[T]) alloc(v *T) Handle {
	if n := len(a.free); n > 0 {
		h := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[h] = v
		return h
	}
	a.slots = append(a.slots, v)
	return Handle(len(a.slots) - 1)
}

func (a *arena[T]) release(h Handle) {
	a.slots[h] = nil
	a.free = append(a.free, h)
}

func (a *arena[T]) at(h Handle) *T {
	if h < 0 || int(h) >= len(a.slots) {
		return nil
	}
	return a.slots[h]
}

func (a *arena[T]) capacity() int { return len(a.slots) }
