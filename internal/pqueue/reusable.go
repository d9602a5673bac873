package pqueue

import "math"

// ReusableHeap is a float-keyed indirect heap over a fixed handle range
// [0, size) that is reused across searches without clearing its arrays.
//
// After Initialise every handle is implicitly in the heap with the default
// key, so DecreaseKey also acts as insert. Entries carry the generation
// (ticket) in which they were last written; entries from an older
// generation read as their defaults.
type ReusableHeap struct {
	keys   []float64
	in     []int
	out    []int
	ticket []int32

	current    int32
	defaultKey float64
	heapSize   int
}

// NewReusableHeap returns a heap with no backing storage. Call Initialise
// before use.
func NewReusableHeap() *ReusableHeap {
	return &ReusableHeap{defaultKey: math.Inf(1)}
}

// Initialise starts a new generation over size handles, all keyed with
// defaultKey. Storage is only reallocated when size changes.
func (h *ReusableHeap) Initialise(size int, defaultKey float64) {
	h.defaultKey = defaultKey
	h.heapSize = size

	switch {
	case len(h.ticket) != size:
		h.keys = make([]float64, size)
		h.in = make([]int, size)
		h.out = make([]int, size)
		h.ticket = make([]int32, size)
		h.current = 1
	case h.current == math.MaxInt32:
		clear(h.ticket)
		h.current = 1
	default:
		h.current++
	}
}

// Generation is the current ticket.
func (h *ReusableHeap) Generation() int32 { return h.current }

func (h *ReusableHeap) key(i int) float64 {
	if h.ticket[i] != h.current {
		return h.defaultKey
	}
	return h.keys[i]
}

func (h *ReusableHeap) inSlot(i int) int {
	if h.ticket[i] != h.current {
		return i
	}
	return h.in[i]
}

func (h *ReusableHeap) outHandle(i int) int {
	if h.ticket[i] != h.current {
		return i
	}
	return h.out[i]
}

// touch brings entry i into the current generation with default values.
func (h *ReusableHeap) touch(i int) {
	if h.ticket[i] == h.current {
		return
	}
	h.keys[i] = h.defaultKey
	h.in[i] = i
	h.out[i] = i
	h.ticket[i] = h.current
}

func (h *ReusableHeap) setKey(i int, v float64) { h.touch(i); h.keys[i] = v }
func (h *ReusableHeap) setIn(i, v int)          { h.touch(i); h.in[i] = v }
func (h *ReusableHeap) setOut(i, v int)         { h.touch(i); h.out[i] = v }

func (h *ReusableHeap) swap(a, b int) {
	s, t := h.outHandle(a), h.outHandle(b)

	ka, kb := h.key(a), h.key(b)
	h.setKey(a, kb)
	h.setKey(b, ka)

	is, it := h.inSlot(s), h.inSlot(t)
	h.setIn(s, it)
	h.setIn(t, is)

	h.setOut(a, t)
	h.setOut(b, s)
}

func (h *ReusableHeap) up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if !(h.key(i) < h.key(parent)) {
			return
		}
		h.swap(i, parent)
		i = parent
	}
}

func (h *ReusableHeap) down(i int) {
	for {
		left, right := 2*i+1, 2*i+2
		if left >= h.heapSize {
			return
		}
		child := left
		if right < h.heapSize && h.key(right) < h.key(left) {
			child = right
		}
		if !(h.key(i) > h.key(child)) {
			return
		}
		h.swap(i, child)
		i = child
	}
}

// DecreaseKey lowers the key of handle. The new key must not be larger
// than the current one.
func (h *ReusableHeap) DecreaseKey(handle int, key float64) {
	slot := h.inSlot(handle)
	h.setKey(slot, key)
	h.up(slot)
}

// MinValue is the smallest key. The heap must not be empty.
func (h *ReusableHeap) MinValue() float64 { return h.key(0) }

// PopMinIndex removes the handle with the smallest key.
func (h *ReusableHeap) PopMinIndex() (int, error) {
	if h.heapSize == 0 {
		return -1, ErrEmptyQueue
	}
	last := h.heapSize - 1
	s := h.outHandle(0)
	if last == 0 {
		h.setIn(s, -1)
		h.heapSize--
		return s, nil
	}
	t := h.outHandle(last)
	h.setKey(0, h.key(last))
	h.setIn(s, -1)
	h.setIn(t, 0)
	h.setOut(0, t)
	h.heapSize--
	h.down(0)
	return s, nil
}

func (h *ReusableHeap) Size() int     { return h.heapSize }
func (h *ReusableHeap) IsEmpty() bool { return h.heapSize <= 0 }
