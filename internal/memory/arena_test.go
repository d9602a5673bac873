package memory

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArena_ReadsOwnWrites(t *testing.T) {
	a := New()
	ticket := a.Initialise(16, math.Inf(1), -1, false)
	require.Equal(t, Ticket(1), ticket)

	a.SetDistance(3, 2.5)
	a.SetParent(3, 7)
	a.SetVisited(3, true)

	assert.Equal(t, 2.5, a.Distance(3))
	assert.Equal(t, 7, a.Parent(3))
	assert.True(t, a.Visited(3))
	assert.NoError(t, a.CheckTicket(ticket))
}

func TestArena_NewGenerationHidesStaleValues(t *testing.T) {
	a := New()
	first := a.Initialise(8, math.Inf(1), -1, false)
	a.SetDistance(5, 1)
	a.SetParent(5, 4)
	a.SetVisited(5, true)
	a.SetPending(5, true)

	second := a.Initialise(8, math.Inf(1), -1, false)
	assert.Equal(t, first+1, second)
	assert.True(t, math.IsInf(a.Distance(5), 1))
	assert.Equal(t, -1, a.Parent(5))
	assert.False(t, a.Visited(5))
	assert.False(t, a.Pending(5))

	err := a.CheckTicket(first)
	assert.ErrorIs(t, err, ErrTicketMismatch)
}

func TestArena_StaleWriteResetsSiblingFields(t *testing.T) {
	a := New()
	a.Initialise(4, 0, 9, true)
	a.SetDistance(1, 3)
	a.SetParent(1, 2)
	a.SetVisited(1, false)

	a.Initialise(4, math.Inf(1), -1, false)
	a.SetParent(1, 0)

	assert.Equal(t, 0, a.Parent(1))
	assert.True(t, math.IsInf(a.Distance(1), 1))
	assert.False(t, a.Visited(1))
}

func TestArena_ResizeReallocates(t *testing.T) {
	a := New()
	a.Initialise(4, 0, -1, false)
	a.Initialise(4, 0, -1, false)
	require.Equal(t, Ticket(2), a.Ticket())

	ticket := a.Initialise(9, 0, -1, false)
	assert.Equal(t, Ticket(1), ticket)
	assert.Equal(t, 9, a.Size())
	assert.Equal(t, 0.0, a.Distance(8))
}
