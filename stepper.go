package anyangle

import (
	"context"
	"errors"
	"sync"

	"github.com/pdrpinto/anyangle/grid"
	"github.com/pdrpinto/anyangle/internal/search"
)

// Recorder observes a running search. Searches offer snapshots at points of
// their choosing through MaybeSaveSearchSnapshot; the recorder decides
// whether to take them. Recording never changes a search's result.
type Recorder = search.Recorder

// Snapshot, Segment and Interval describe the visible state of a search.
type (
	Snapshot = search.Snapshot
	Segment  = search.Segment
	Interval = search.Interval
)

// NoRecorder discards every snapshot.
var NoRecorder Recorder = noRecorder{}

type noRecorder struct{}

func (noRecorder) IsRecording() bool                       { return false }
func (noRecorder) MaybeSaveSearchSnapshot(func() Snapshot) {}

// StepSnapshot exposes the state of a search at one recorded step.
type StepSnapshot struct {
	StepIndex int          `json:"step"`
	Vertices  []grid.Point `json:"vertices"`
	Edges     []Segment    `json:"edges"`
	Intervals []Interval   `json:"intervals,omitempty"`
	Done      bool         `json:"done"`
	Found     bool         `json:"found"`
	Path      []grid.Point `json:"path,omitempty"`
}

// SnapshotRecorder keeps the snapshots offered by a search. It is safe for
// concurrent use, although a single search offers snapshots from one
// goroutine.
type SnapshotRecorder struct {
	mu        sync.Mutex
	recording bool
	interval  int
	offered   int
	snapshots []StepSnapshot
}

// RecorderOption configures a SnapshotRecorder.
type RecorderOption func(*SnapshotRecorder)

// WithSnapshotInterval keeps only every n-th offered snapshot.
func WithSnapshotInterval(n int) RecorderOption {
	return func(r *SnapshotRecorder) {
		if n > 0 {
			r.interval = n
		}
	}
}

// NewSnapshotRecorder returns a recorder that is already recording.
func NewSnapshotRecorder(options ...RecorderOption) *SnapshotRecorder {
	r := &SnapshotRecorder{recording: true, interval: 1}
	for _, o := range options {
		o(r)
	}
	return r
}

func (r *SnapshotRecorder) StartRecording() {
	r.mu.Lock()
	r.recording = true
	r.mu.Unlock()
}

func (r *SnapshotRecorder) StopRecording() {
	r.mu.Lock()
	r.recording = false
	r.mu.Unlock()
}

func (r *SnapshotRecorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recording
}

// MaybeSaveSearchSnapshot stores the snapshot when recording and the
// offer falls on the configured interval.
func (r *SnapshotRecorder) MaybeSaveSearchSnapshot(snapshot func() Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.recording {
		return
	}
	r.offered++
	if (r.offered-1)%r.interval != 0 {
		return
	}
	s := snapshot()
	r.snapshots = append(r.snapshots, StepSnapshot{
		StepIndex: len(r.snapshots),
		Vertices:  s.Vertices,
		Edges:     s.Edges,
		Intervals: s.Intervals,
	})
}

// Snapshots returns a copy of the stored snapshots in recording order.
func (r *SnapshotRecorder) Snapshots() []StepSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]StepSnapshot, len(r.snapshots))
	copy(out, r.snapshots)
	return out
}

// Reset discards the stored snapshots.
func (r *SnapshotRecorder) Reset() {
	r.mu.Lock()
	r.snapshots, r.offered = nil, 0
	r.mu.Unlock()
}

// Stepper replays a recorded search one snapshot at a time, ending with a
// snapshot that carries the path.
type Stepper struct {
	snapshots []StepSnapshot
	result    Result
	next      int
}

// NewStepper runs the search from start to goal with a recorder attached
// and prepares its snapshots for replay. The search's ErrNoPath is not an
// error here; it shows up as a final snapshot with Found false.
func NewStepper(
	ctx context.Context,
	g *grid.Grid,
	start grid.Point,
	goal grid.Point,
	options ...Option,
) (*Stepper, error) {
	recorder := NewSnapshotRecorder()
	searchOptions := append(append([]Option{}, options...), WithRecorder(recorder))
	result, err := Search(ctx, g, start, goal, searchOptions...)
	if err != nil && !errors.Is(err, ErrNoPath) {
		return nil, err
	}
	return &Stepper{snapshots: recorder.Snapshots(), result: result}, nil
}

// Step returns the next snapshot. Once the recorded snapshots run out it
// keeps returning the final one.
func (s *Stepper) Step() StepSnapshot {
	if s.next < len(s.snapshots) {
		snapshot := s.snapshots[s.next]
		s.next++
		return snapshot
	}
	final := StepSnapshot{
		StepIndex: len(s.snapshots),
		Done:      true,
		Found:     s.result.Found,
		Path:      s.result.Path,
	}
	if n := len(s.snapshots); n > 0 {
		final.Vertices = s.snapshots[n-1].Vertices
		final.Edges = s.snapshots[n-1].Edges
		final.Intervals = s.snapshots[n-1].Intervals
	}
	return final
}

// Len is the number of recorded snapshots, not counting the final one.
func (s *Stepper) Len() int { return len(s.snapshots) }

// Result is the outcome of the replayed search.
func (s *Stepper) Result() Result { return s.result }
