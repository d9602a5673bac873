package anyangle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdrpinto/anyangle/grid"
)

func TestSearchBatch_KeepsTaskOrder(t *testing.T) {
	g := wallGrid(t)
	tasks := []BatchTask{
		{Start: pt(0, 0), Goal: pt(2, 5)},
		{Start: pt(0, 0), Goal: pt(5, 5)},
		{Start: pt(3, 0), Goal: pt(5, 5), Algorithm: JPS},
		{Start: pt(1, 1), Goal: pt(1, 1)},
		{Start: pt(4, 5), Goal: pt(1, 0), Algorithm: VisibilityGraphReuse},
	}

	results, err := SearchBatch(context.Background(), g, tasks, WithWorkers(2), WithAlgorithm(Anya))
	require.NoError(t, err)
	require.Len(t, results, len(tasks))

	for i, r := range results {
		assert.Equal(t, tasks[i], r.Task)
	}
	assert.NoError(t, results[0].Err)
	assert.True(t, results[0].Result.Found)
	assert.ErrorIs(t, results[1].Err, ErrNoPath)
	assert.NoError(t, results[2].Err)
	assert.Equal(t, pt(3, 0), results[2].Result.Path[0])
	assert.Equal(t, []grid.Point{pt(1, 1)}, results[3].Result.Path)
	assert.ErrorIs(t, results[4].Err, ErrNoPath)
}

func TestSearchBatch_AgreesWithSearch(t *testing.T) {
	g := emptyGrid(t, 8, 6)
	g.SetBlocked(2, 1, true)
	g.SetBlocked(3, 1, true)
	g.SetBlocked(5, 3, true)
	g.SetBlocked(5, 4, true)

	var tasks []BatchTask
	for _, goal := range []grid.Point{pt(8, 6), pt(7, 0), pt(4, 5), pt(6, 2)} {
		tasks = append(tasks, BatchTask{Start: pt(0, 0), Goal: goal})
	}
	results, err := SearchBatch(context.Background(), g, tasks, WithWorkers(3), WithAlgorithm(VisibilityGraphReuse))
	require.NoError(t, err)

	for i, task := range tasks {
		want, err := Search(context.Background(), g, task.Start, task.Goal, WithAlgorithm(VisibilityGraph))
		require.NoError(t, err)
		require.NoError(t, results[i].Err)
		assert.InDelta(t, want.TotalCost, results[i].Result.TotalCost, 1e-9)
	}
}

func TestSearchBatch_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := SearchBatch(ctx, emptyGrid(t, 4, 4), []BatchTask{{Start: pt(0, 0), Goal: pt(4, 4)}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearchBatch_Empty(t *testing.T) {
	results, err := SearchBatch(context.Background(), emptyGrid(t, 2, 2), nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}
