package pqueue

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariableHeap_InsertPopDecrease(t *testing.T) {
	pq := NewVariableHeap(7)

	handles := make([]int, 239)
	for i := 0; i <= 60; i++ {
		handles[i] = pq.Insert(float64(i * 73 % 239))
	}
	pq.Reserve(200)
	for i := 61; i < 239; i++ {
		handles[i] = pq.Insert(float64(i * 73 % 239))
	}
	pq.Reserve(400)
	require.Equal(t, 239, pq.Size())
	pq.Reserve(1000)
	require.Equal(t, 239, pq.Size())

	for i := 0; i < 100; i++ {
		assert.Equal(t, float64(i), pq.MinValue())
		h, err := pq.PopMinIndex()
		require.NoError(t, err)
		assert.Equal(t, i, h*73%239)
	}
	require.False(t, pq.IsEmpty())
	require.Equal(t, 139, pq.Size())

	newHandles := make([]int, 0, 139)
	for i := 0; i < 239; i++ {
		if i*73%239 >= 100 {
			pq.DecreaseKey(handles[i], float64(-1-len(newHandles)))
			newHandles = append(newHandles, handles[i])
		}
	}
	require.Len(t, newHandles, 139)

	for i := 0; i < 39; i++ {
		assert.Equal(t, float64(i-139), pq.MinValue())
		h, err := pq.PopMinIndex()
		require.NoError(t, err)
		assert.Equal(t, newHandles[139-i-1], h)
	}

	// newHandles[0:100] remain with keys -1 .. -100.
	newerHandles := make([]int, 101)
	for i := range newerHandles {
		newerHandles[i] = pq.Insert(-float64(i) - 0.5)
	}
	require.Equal(t, 201, pq.Size())

	for i := 0; i < 100; i++ {
		assert.InDelta(t, -100.5+float64(i), pq.MinValue(), 1e-3)
		h, err := pq.PopMinIndex()
		require.NoError(t, err)
		assert.Equal(t, newerHandles[100-i], h)
		assert.Equal(t, 200-2*i, pq.Size())

		assert.InDelta(t, -100+float64(i), pq.MinValue(), 1e-3)
		h, err = pq.PopMinIndex()
		require.NoError(t, err)
		assert.Equal(t, newHandles[99-i], h)
		assert.Equal(t, 199-2*i, pq.Size())
	}

	assert.InDelta(t, -0.5, pq.MinValue(), 1e-3)
	pq.DecreaseKey(newerHandles[0], -1000)
	assert.InDelta(t, -1000, pq.MinValue(), 1e-3)
	assert.Equal(t, newerHandles[0], pq.MinIndex())
	h, err := pq.PopMinIndex()
	require.NoError(t, err)
	assert.Equal(t, newerHandles[0], h)
	assert.Equal(t, 0, pq.Size())

	_, err = pq.PopMinIndex()
	assert.ErrorIs(t, err, ErrEmptyQueue)
}

func TestIndirectHeap_PopsInOrder(t *testing.T) {
	pq := NewIndirectHeap[int](true)
	pq.Reserve(16)
	for i := 0; i < 239; i++ {
		h := pq.Insert(i * 73 % 239)
		require.Equal(t, i, h)
	}
	require.Equal(t, 239, pq.Size())

	prev := math.MinInt
	for !pq.IsEmpty() {
		v, err := pq.PopMinValue()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
	assert.Equal(t, 238, prev)

	_, err := pq.PopMinIndex()
	assert.ErrorIs(t, err, ErrEmptyQueue)
}

func TestIndirectHeap_HandlesSurviveDecreaseKey(t *testing.T) {
	pq := NewIndirectHeap[float64](true)
	a := pq.Insert(5)
	b := pq.Insert(3)
	c := pq.Insert(9)

	pq.DecreaseKey(c, 1)
	assert.Equal(t, 1.0, pq.MinValue())
	assert.Equal(t, 3.0, pq.Key(b))

	got := make([]int, 0, 3)
	for !pq.IsEmpty() {
		h, err := pq.PopMinIndex()
		require.NoError(t, err)
		got = append(got, h)
		assert.False(t, pq.Contains(h))
	}
	assert.Equal(t, []int{c, b, a}, got)
}

func TestIndirectHeap_MaxHeapAndComparator(t *testing.T) {
	maxHeap := NewIndirectHeap[int](false)
	for _, v := range []int{4, 8, 1, 6} {
		maxHeap.Insert(v)
	}
	v, err := maxHeap.PopMinValue()
	require.NoError(t, err)
	assert.Equal(t, 8, v)

	type job struct {
		name     string
		priority int
	}
	jobs := NewIndirectHeapFunc(func(a, b job) bool { return a.priority < b.priority })
	jobs.Insert(job{"b", 2})
	jobs.Insert(job{"a", 1})
	jobs.SetComparator(func(a, b job) bool { return a.name > b.name })
	jobs.Heapify()
	top, err := jobs.PopMinValue()
	require.NoError(t, err)
	assert.Equal(t, "b", top.name)
}

func TestFromKeys_Heapify(t *testing.T) {
	keys := []float64{math.Inf(1), math.Inf(1), 0, math.Inf(1)}
	pq := FromKeys(keys, true)
	pq.Heapify()

	h, err := pq.PopMinIndex()
	require.NoError(t, err)
	assert.Equal(t, 2, h)

	pq.DecreaseKey(3, 2.5)
	pq.DecreaseKey(0, 1.5)
	h, err = pq.PopMinIndex()
	require.NoError(t, err)
	assert.Equal(t, 0, h)
	h, err = pq.PopMinIndex()
	require.NoError(t, err)
	assert.Equal(t, 3, h)
	assert.Equal(t, 1, pq.Size())
}

func TestReusableHeap_GenerationsDoNotLeak(t *testing.T) {
	pq := NewReusableHeap()
	pq.Initialise(10, math.Inf(1))
	require.Equal(t, 10, pq.Size())

	pq.DecreaseKey(7, 3)
	pq.DecreaseKey(2, 1)
	pq.DecreaseKey(7, 0.5)

	h, err := pq.PopMinIndex()
	require.NoError(t, err)
	assert.Equal(t, 7, h)
	h, err = pq.PopMinIndex()
	require.NoError(t, err)
	assert.Equal(t, 2, h)
	assert.True(t, math.IsInf(pq.MinValue(), 1))
	gen := pq.Generation()

	pq.Initialise(10, math.Inf(1))
	assert.Equal(t, gen+1, pq.Generation())
	assert.Equal(t, 10, pq.Size())
	assert.True(t, math.IsInf(pq.MinValue(), 1))

	pq.DecreaseKey(4, 2)
	h, err = pq.PopMinIndex()
	require.NoError(t, err)
	assert.Equal(t, 4, h)

	for i := 0; i < 9; i++ {
		_, err = pq.PopMinIndex()
		require.NoError(t, err)
	}
	assert.True(t, pq.IsEmpty())
	_, err = pq.PopMinIndex()
	assert.ErrorIs(t, err, ErrEmptyQueue)
}

func TestReusableHeap_ResizeResetsGeneration(t *testing.T) {
	pq := NewReusableHeap()
	pq.Initialise(4, math.Inf(1))
	pq.Initialise(4, math.Inf(1))
	assert.Equal(t, int32(2), pq.Generation())

	pq.Initialise(6, 0)
	assert.Equal(t, int32(1), pq.Generation())
	assert.Equal(t, 0.0, pq.MinValue())
}

func TestReusableHeap_PopOrderMatchesKeys(t *testing.T) {
	pq := NewReusableHeap()
	pq.Initialise(239, math.Inf(1))
	for i := 0; i < 239; i++ {
		pq.DecreaseKey(i, float64(i*73%239))
	}
	for want := 0; want < 239; want++ {
		assert.Equal(t, float64(want), pq.MinValue())
		h, err := pq.PopMinIndex()
		require.NoError(t, err)
		assert.Equal(t, want, h*73%239)
	}
}
