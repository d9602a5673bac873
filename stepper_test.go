package anyangle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func offer(r Recorder, n int) int {
	calls := 0
	for i := 0; i < n; i++ {
		r.MaybeSaveSearchSnapshot(func() Snapshot {
			calls++
			return Snapshot{Vertices: nil, Edges: []Segment{{From: pt(0, 0), To: pt(i, i)}}}
		})
	}
	return calls
}

func TestSnapshotRecorder_Interval(t *testing.T) {
	r := NewSnapshotRecorder(WithSnapshotInterval(2))

	assert.Equal(t, 3, offer(r, 5))
	snapshots := r.Snapshots()
	require.Len(t, snapshots, 3)
	for i, s := range snapshots {
		assert.Equal(t, i, s.StepIndex)
		assert.Equal(t, pt(2*i, 2*i), s.Edges[0].To)
	}

	r.Reset()
	assert.Empty(t, r.Snapshots())
}

func TestSnapshotRecorder_StopRecording(t *testing.T) {
	r := NewSnapshotRecorder()
	r.StopRecording()
	assert.False(t, r.IsRecording())
	assert.Zero(t, offer(r, 3))
	assert.Empty(t, r.Snapshots())

	r.StartRecording()
	assert.Equal(t, 3, offer(r, 3))
	assert.Len(t, r.Snapshots(), 3)
}

func TestNoRecorder(t *testing.T) {
	assert.False(t, NoRecorder.IsRecording())
	assert.Zero(t, offer(NoRecorder, 4))
}

func TestStepper_ReplaysSearch(t *testing.T) {
	g := emptyGrid(t, 6, 6)
	g.SetBlocked(2, 2, true)

	stepper, err := NewStepper(context.Background(), g, pt(1, 1), pt(4, 4), WithAlgorithm(Anya))
	require.NoError(t, err)
	require.Positive(t, stepper.Len())

	for i := 0; i < stepper.Len(); i++ {
		s := stepper.Step()
		assert.Equal(t, i, s.StepIndex)
		assert.False(t, s.Done)
	}

	final := stepper.Step()
	assert.True(t, final.Done)
	assert.True(t, final.Found)
	assert.Equal(t, stepper.Result().Path, final.Path)
	assert.Len(t, final.Path, 3)

	// The final snapshot repeats once the replay is over.
	assert.Equal(t, final, stepper.Step())
}

func TestStepper_NoPathIsNotAnError(t *testing.T) {
	stepper, err := NewStepper(context.Background(), wallGrid(t), pt(0, 0), pt(5, 5), WithAlgorithm(LazyThetaStar))
	require.NoError(t, err)

	var final StepSnapshot
	for i := 0; i <= stepper.Len(); i++ {
		final = stepper.Step()
	}
	assert.True(t, final.Done)
	assert.False(t, final.Found)
	assert.Nil(t, final.Path)
}

func TestStepper_InvalidRequest(t *testing.T) {
	_, err := NewStepper(context.Background(), emptyGrid(t, 2, 2), pt(0, 0), pt(3, 3))
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestStepper_LeavesCallerOptionsAlone(t *testing.T) {
	g := emptyGrid(t, 6, 6)
	g.SetBlocked(2, 2, true)

	// Spare capacity lets an append inside NewStepper reach the caller's
	// backing array.
	options := make([]Option, 1, 4)
	options[0] = WithAlgorithm(Anya)

	_, err := NewStepper(context.Background(), g, pt(1, 1), pt(4, 4), options...)
	require.NoError(t, err)
	assert.Nil(t, options[:2][1])
}
