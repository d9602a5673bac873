package search

// tautBuffer is the penalty charged for accepting a non-taut parent.
const tautBuffer = 0.42

// NewStrictThetaStar is Theta* that prefers taut paths. A relaxation whose
// bend is not taut is still taken but costs tautBuffer extra and leaves the
// vertex pending; the buffer is removed when the vertex is popped.
func NewStrictThetaStar(p Problem, cfg Config) *GridSearch {
	s := NewBasicThetaStar(p, cfg)
	s.relax = s.relaxStrict
	s.onPop = s.fixBuffer
	s.snapshotPerExpansion = true
	return s
}

// NewRecursiveStrictThetaStar searches back along the parent chain for a
// taut parent, at most depthLimit steps (negative means unbounded), and
// drops interior points that are collinear with their neighbours.
func NewRecursiveStrictThetaStar(p Problem, cfg Config, depthLimit int) *GridSearch {
	s := NewStrictThetaStar(p, cfg)
	s.relax = func(u, v int, _ float64) bool {
		return s.tautRelax(u, v, depthLimit)
	}
	return s
}

// fixBuffer strips the penalty from a popped pending vertex.
func (s *GridSearch) fixBuffer(current int) {
	if !s.mem.Pending(current) {
		return
	}
	s.mem.SetPending(current, false)
	parent := s.mem.Parent(current)
	s.mem.SetDistance(current, s.mem.Distance(parent)+s.physicalDistance(current, parent))
}

// isTaut reports whether the path v, u, parent(u) is taut. It is trivially
// taut when u has no parent.
func (s *GridSearch) isTaut(v, u int) bool {
	p := s.mem.Parent(u)
	if p == -1 {
		return true
	}
	g := s.g
	return g.MustIsTaut(g.ToTwoDimX(v), g.ToTwoDimY(v), g.ToTwoDimX(u), g.ToTwoDimY(u), g.ToTwoDimX(p), g.ToTwoDimY(p))
}

func (s *GridSearch) relaxStrict(u, v int, _ float64) bool {
	if parent := s.mem.Parent(u); parent != -1 && s.lineOfSight(parent, v) {
		return s.relaxTarget(v, parent, s.mem.Distance(parent)+s.physicalDistance(parent, v))
	}
	return s.relaxTarget(v, u, s.mem.Distance(u)+s.physicalDistance(u, v))
}

func (s *GridSearch) relaxTarget(v, parent int, newWeight float64) bool {
	if newWeight >= s.mem.Distance(v) {
		return false
	}
	pending := !s.isTaut(v, parent)
	if pending {
		newWeight += tautBuffer
	}
	s.mem.SetDistance(v, newWeight)
	s.mem.SetParent(v, parent)
	s.mem.SetPending(v, pending)
	return true
}

func (s *GridSearch) tautRelax(u, v, depth int) bool {
	for {
		if s.isTaut(v, u) {
			return s.relaxVertex(u, v, false)
		}
		parent := s.mem.Parent(u)
		if !s.lineOfSight(parent, v) {
			return s.relaxVertex(u, v, true)
		}
		if depth == 0 {
			return s.relaxVertex(parent, v, !s.isTaut(v, parent))
		}
		u, depth = parent, depth-1
	}
}

func (s *GridSearch) relaxVertex(u, v int, addBuffer bool) bool {
	newParent := u
	newWeight := s.mem.Distance(u) + s.physicalDistance(u, v)
	if addBuffer {
		newWeight += tautBuffer
	}
	if newWeight >= s.mem.Distance(v) {
		return false
	}
	pending := addBuffer
	if s.mergeableWithParent(u, v) {
		newParent = s.mem.Parent(u)
		pending = false
	}
	s.mem.SetDistance(v, newWeight)
	s.mem.SetParent(v, newParent)
	s.mem.SetPending(v, pending)
	return true
}

// mergeableWithParent reports whether parent(u), u and v are collinear with
// u not an outer corner, so that u can be dropped from v's path.
func (s *GridSearch) mergeableWithParent(u, v int) bool {
	if u == -1 {
		return false
	}
	p := s.mem.Parent(u)
	if p == -1 {
		return false
	}
	g := s.g
	ux, uy := g.ToTwoDimX(u), g.ToTwoDimY(u)
	if g.IsOuterCorner(ux, uy) {
		return false
	}
	return collinear(g.ToTwoDimX(p), g.ToTwoDimY(p), ux, uy, g.ToTwoDimX(v), g.ToTwoDimY(v))
}

func collinear(x1, y1, x2, y2, x3, y3 int) bool {
	return (y2-y1)*(x3-x2) == (y3-y2)*(x2-x1)
}
