package object

// Pool is a fixed-size ring of reusable slots.
//
// Allocation is round-robin: Next always hands out the slot after the
// previous one, wrapping at capacity, whether or not the old occupant is
// finished. There is no free operation; callers reset the slot they get.
type Pool[T any] struct {
	slots  []T
	cursor int
}

// NewPool preallocates capacity slots. init, if non-nil, is applied to each
// slot once. Capacity below 1 is raised to 1.
func NewPool[T any](capacity int, init func(*T)) *Pool[T] {
	if capacity < 1 {
		capacity = 1
	}
	p := &Pool[T]{slots: make([]T, capacity)}
	if init != nil {
		for i := range p.slots {
			init(&p.slots[i])
		}
	}
	return p
}

// Next returns the index of the next slot and advances the cursor.
func (p *Pool[T]) Next() int {
	i := p.cursor
	p.cursor++
	if p.cursor >= len(p.slots) {
		p.cursor = 0
	}
	return i
}

// Acquire returns the next slot and its index.
func (p *Pool[T]) Acquire() (int, *T) {
	i := p.Next()
	return i, &p.slots[i]
}

// Slot returns a pointer to slot i.
func (p *Pool[T]) Slot(i int) *T {
	return &p.slots[i]
}

// Len returns the pool capacity.
func (p *Pool[T]) Len() int {
	return len(p.slots)
}

// Cursor returns the index the next call to Next will return.
func (p *Pool[T]) Cursor() int {
	return p.cursor
}

// Each calls fn for every slot in order.
func (p *Pool[T]) Each(fn func(i int, slot *T)) {
	for i := range p.slots {
		fn(i, &p.slots[i])
	}
}

// Rewind moves the cursor back to slot 0.
func (p *Pool[T]) Rewind() {
	p.cursor = 0
}

// Reset applies fn to every slot and rewinds the cursor.
func (p *Pool[T]) Reset(fn func(slot *T)) {
	for i := range p.slots {
		fn(&p.slots[i])
	}
	p.cursor = 0
}
