// Package pqueue holds the indexed priority queues used by the searches.
//
// Every queue hands out integer handles on insert. A handle keeps naming the
// same element while the element moves around the heap, which is what makes
// DecreaseKey possible: the queues keep two permutation tables, in (handle to
// heap slot) and out (heap slot to handle), next to the key array.
package pqueue

import (
	"cmp"
	"container/heap"
	"errors"
)

// ErrEmptyQueue is returned when popping from a queue with no elements.
var ErrEmptyQueue = errors.New("pqueue: pop from empty queue")

// IndirectHeap is a binary heap over keys of any type with stable handles.
// It orders by less, so a max-heap is a min-heap with the comparison flipped.
type IndirectHeap[K any] struct {
	keys []K
	in   []int
	out  []int
	less func(a, b K) bool
}

// NewIndirectHeap returns an empty heap over an ordered key type. With
// minHeap false the heap pops the largest key first.
func NewIndirectHeap[K cmp.Ordered](minHeap bool) *IndirectHeap[K] {
	return NewIndirectHeapFunc(orderedLess[K](minHeap))
}

// NewIndirectHeapFunc returns an empty heap ordered by a custom comparator.
func NewIndirectHeapFunc[K any](less func(a, b K) bool) *IndirectHeap[K] {
	return &IndirectHeap[K]{less: less}
}

// FromKeys wraps keys as a heap where handle i refers to keys[i]. The slice
// is copied. Call Heapify before popping.
func FromKeys[K cmp.Ordered](keys []K, minHeap bool) *IndirectHeap[K] {
	h := &IndirectHeap[K]{
		keys: append([]K(nil), keys...),
		in:   make([]int, len(keys)),
		out:  make([]int, len(keys)),
		less: orderedLess[K](minHeap),
	}
	for i := range keys {
		h.in[i] = i
		h.out[i] = i
	}
	return h
}

func orderedLess[K cmp.Ordered](minHeap bool) func(a, b K) bool {
	if minHeap {
		return func(a, b K) bool { return cmp.Less(a, b) }
	}
	return func(a, b K) bool { return cmp.Less(b, a) }
}

// SetComparator replaces the ordering. Call Heapify afterwards if the heap
// already holds elements.
func (h *IndirectHeap[K]) SetComparator(less func(a, b K) bool) {
	h.less = less
}

// Reserve grows the backing arrays so that capacity elements fit without
// reallocation.
func (h *IndirectHeap[K]) Reserve(capacity int) {
	if cap(h.keys) >= capacity {
		return
	}
	keys := make([]K, len(h.keys), capacity)
	copy(keys, h.keys)
	h.keys = keys
	out := make([]int, len(h.out), capacity)
	copy(out, h.out)
	h.out = out
	in := make([]int, len(h.in), capacity)
	copy(in, h.in)
	h.in = in
}

// Insert adds key and returns its handle.
func (h *IndirectHeap[K]) Insert(key K) int {
	handle := len(h.in)
	h.in = append(h.in, len(h.keys))
	heap.Push(h.slots(), slotEntry[K]{key: key, handle: handle})
	return handle
}

// Heapify restores the heap order over all elements in O(n).
func (h *IndirectHeap[K]) Heapify() {
	heap.Init(h.slots())
}

// DecreaseKey moves handle towards the top after lowering its key (raising
// it, for a max-heap).
func (h *IndirectHeap[K]) DecreaseKey(handle int, key K) {
	h.Update(handle, key)
}

// Update sets the key of handle and restores the heap order in either
// direction.
func (h *IndirectHeap[K]) Update(handle int, key K) {
	slot := h.in[handle]
	h.keys[slot] = key
	heap.Fix(h.slots(), slot)
}

// Key returns the current key of a handle that has not been popped.
func (h *IndirectHeap[K]) Key(handle int) K {
	return h.keys[h.in[handle]]
}

// Contains reports whether handle is still in the heap.
func (h *IndirectHeap[K]) Contains(handle int) bool {
	return handle >= 0 && handle < len(h.in) && h.in[handle] >= 0
}

// MinValue is the key at the top of the heap. The heap must not be empty.
func (h *IndirectHeap[K]) MinValue() K {
	return h.keys[0]
}

// PopMinIndex removes the top element and returns its handle.
func (h *IndirectHeap[K]) PopMinIndex() (int, error) {
	if len(h.keys) == 0 {
		return -1, ErrEmptyQueue
	}
	entry := heap.Pop(h.slots()).(slotEntry[K])
	return entry.handle, nil
}

// PopMinValue removes the top element and returns its key.
func (h *IndirectHeap[K]) PopMinValue() (K, error) {
	if len(h.keys) == 0 {
		var zero K
		return zero, ErrEmptyQueue
	}
	entry := heap.Pop(h.slots()).(slotEntry[K])
	return entry.key, nil
}

func (h *IndirectHeap[K]) Size() int     { return len(h.keys) }
func (h *IndirectHeap[K]) IsEmpty() bool { return len(h.keys) == 0 }

type slotEntry[K any] struct {
	key    K
	handle int
}

// heapSlots adapts the heap arrays to container/heap. Swap keeps in and out
// consistent, the same way a heap item tracks its own index.
type heapSlots[K any] IndirectHeap[K]

func (h *IndirectHeap[K]) slots() *heapSlots[K] { return (*heapSlots[K])(h) }

func (s *heapSlots[K]) Len() int           { return len(s.keys) }
func (s *heapSlots[K]) Less(i, j int) bool { return s.less(s.keys[i], s.keys[j]) }

func (s *heapSlots[K]) Swap(i, j int) {
	a, b := s.out[i], s.out[j]
	s.keys[i], s.keys[j] = s.keys[j], s.keys[i]
	s.in[a], s.in[b] = s.in[b], s.in[a]
	s.out[i], s.out[j] = s.out[j], s.out[i]
}

func (s *heapSlots[K]) Push(x any) {
	entry := x.(slotEntry[K])
	s.keys = append(s.keys, entry.key)
	s.out = append(s.out, entry.handle)
}

func (s *heapSlots[K]) Pop() any {
	last := len(s.keys) - 1
	entry := slotEntry[K]{key: s.keys[last], handle: s.out[last]}
	s.in[entry.handle] = -1
	s.keys = s.keys[:last]
	s.out = s.out[:last]
	return entry
}
