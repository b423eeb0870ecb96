// Package pqueue provides an indexable binary min-heap. Unlike
// container/heap it tracks each item's heap slot through a caller-supplied
// interface, giving O(1) membership tests and O(log n) update and removal
// of arbitrary items.
package pqueue

// Interface connects the heap to caller-owned priority and position
// storage. Position returns the slot previously stored with SetPosition,
// or a negative value for items that are not on the heap.
type Interface[T comparable] interface {
	Less(a, b T) bool
	Position(item T) int
	SetPosition(item T, pos int)
}

// Heap is an indexable binary min-heap over items of type T.
type Heap[T comparable] struct {
	iface Interface[T]
	items []T
}

// New returns an empty heap using iface for ordering and slot tracking.
func New[T comparable](iface Interface[T]) *Heap[T] {
	return &Heap[T]{iface: iface}
}

// Len returns the number of items on the heap.
func (h *Heap[T]) Len() int { return len(h.items) }

// Empty reports whether the heap holds no items.
func (h *Heap[T]) Empty() bool { return len(h.items) == 0 }

// Reserve grows the backing slice capacity.
func (h *Heap[T]) Reserve(n int) {
	if cap(h.items) < n {
		items := make([]T, len(h.items), n)
		copy(items, h.items)
		h.items = items
	}
}

// ResetPosition marks item as not stored.
func (h *Heap[T]) ResetPosition(item T) {
	h.iface.SetPosition(item, -1)
}

// IsStored reports whether item currently occupies a heap slot.
func (h *Heap[T]) IsStored(item T) bool {
	pos := h.iface.Position(item)
	return pos >= 0 && pos < len(h.items) && h.items[pos] == item
}

// Insert pushes item onto the heap.
func (h *Heap[T]) Insert(item T) {
	h.items = append(h.items, item)
	h.iface.SetPosition(item, len(h.items)-1)
	h.up(len(h.items) - 1)
}

// Front returns the minimum item without removing it.
func (h *Heap[T]) Front() T { return h.items[0] }

// PopFront removes and returns the minimum item.
func (h *Heap[T]) PopFront() T {
	item := h.items[0]
	h.removeAt(0)
	return item
}

// Remove takes item off the heap. It panics if item is not stored.
func (h *Heap[T]) Remove(item T) {
	pos := h.iface.Position(item)
	if pos < 0 || pos >= len(h.items) || h.items[pos] != item {
		panic("pqueue: remove of item not on heap")
	}
	h.removeAt(pos)
}

// Update restores heap order after item's key changed.
func (h *Heap[T]) Update(item T) {
	pos := h.iface.Position(item)
	h.up(pos)
	h.down(h.iface.Position(item))
}

func (h *Heap[T]) removeAt(pos int) {
	last := len(h.items) - 1
	h.iface.SetPosition(h.items[pos], -1)
	if pos != last {
		h.items[pos] = h.items[last]
		h.iface.SetPosition(h.items[pos], pos)
	}
	h.items = h.items[:last]
	if pos < last {
		h.up(pos)
		h.down(h.iface.Position(h.items[pos]))
	}
}

func (h *Heap[T]) up(pos int) {
	for pos > 0 {
		parent := (pos - 1) / 2
		if !h.iface.Less(h.items[pos], h.items[parent]) {
			break
		}
		h.swap(pos, parent)
		pos = parent
	}
}

func (h *Heap[T]) down(pos int) {
	n := len(h.items)
	for {
		smallest := pos
		left := 2*pos + 1
		right := 2*pos + 2
		if left < n && h.iface.Less(h.items[left], h.items[smallest]) {
			smallest = left
		}
		if right < n && h.iface.Less(h.items[right], h.items[smallest]) {
			smallest = right
		}
		if smallest == pos {
			return
		}
		h.swap(pos, smallest)
		pos = smallest
	}
}

func (h *Heap[T]) swap(i, j int) {
	h.items[i], h.items[j] = h.items[j], h.items[i]
	h.iface.SetPosition(h.items[i], i)
	h.iface.SetPosition(h.items[j], j)
}
