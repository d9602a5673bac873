package pqueue

const defaultVariableCapacity = 11

// VariableHeap is a float-keyed indirect heap that grows as elements are
// inserted. Handles are assigned sequentially and never reused.
type VariableHeap struct {
	keys     []float64
	in       []int
	out      []int
	heapSize int
	next     int
}

// NewVariableHeap returns an empty heap with room for capacity elements.
func NewVariableHeap(capacity int) *VariableHeap {
	if capacity <= 0 {
		capacity = defaultVariableCapacity
	}
	return &VariableHeap{
		keys: make([]float64, capacity),
		in:   make([]int, capacity),
		out:  make([]int, capacity),
	}
}

// Reserve grows the heap so that capacity handles fit without reallocation.
func (h *VariableHeap) Reserve(capacity int) {
	if len(h.keys) < capacity {
		h.grow(capacity)
	}
}

func (h *VariableHeap) grow(capacity int) {
	keys := make([]float64, capacity)
	copy(keys, h.keys)
	in := make([]int, capacity)
	copy(in, h.in)
	out := make([]int, capacity)
	copy(out, h.out)
	h.keys, h.in, h.out = keys, in, out
}

// Insert adds key and returns its handle.
func (h *VariableHeap) Insert(key float64) int {
	if h.next >= len(h.keys) {
		h.grow(2 * len(h.keys))
	}
	slot, handle := h.heapSize, h.next
	h.keys[slot] = key
	h.in[handle] = slot
	h.out[slot] = handle
	h.heapSize++
	h.next++
	h.up(slot)
	return handle
}

func (h *VariableHeap) swap(a, b int) {
	s, t := h.out[a], h.out[b]
	h.keys[a], h.keys[b] = h.keys[b], h.keys[a]
	h.in[s], h.in[t] = h.in[t], h.in[s]
	h.out[a], h.out[b] = h.out[b], h.out[a]
}

func (h *VariableHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !(h.keys[i] < h.keys[parent]) {
			return
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *VariableHeap) down(i int) {
	for {
		left, right := 2*i+1, 2*i+2
		if left >= h.heapSize {
			return
		}
		child := left
		if right < h.heapSize && h.keys[right] < h.keys[left] {
			child = right
		}
		if !(h.keys[i] > h.keys[child]) {
			return
		}
		h.swap(i, child)
		i = child
	}
}

// DecreaseKey lowers the key of a handle still in the heap.
func (h *VariableHeap) DecreaseKey(handle int, key float64) {
	slot := h.in[handle]
	h.keys[slot] = key
	h.up(slot)
}

// MinValue is the smallest key. The heap must not be empty.
func (h *VariableHeap) MinValue() float64 { return h.keys[0] }

// MinIndex is the handle with the smallest key. The heap must not be empty.
func (h *VariableHeap) MinIndex() int { return h.out[0] }

// PopMinIndex removes the handle with the smallest key.
func (h *VariableHeap) PopMinIndex() (int, error) {
	if h.heapSize == 0 {
		return -1, ErrEmptyQueue
	}
	last := h.heapSize - 1
	s, t := h.out[0], h.out[last]
	h.keys[0] = h.keys[last]
	h.in[s] = -1
	if last > 0 {
		h.in[t] = 0
	}
	h.out[0] = t
	h.heapSize--
	h.down(0)
	return s, nil
}

func (h *VariableHeap) Size() int     { return h.heapSize }
func (h *VariableHeap) IsEmpty() bool { return h.heapSize <= 0 }
