package internal

// ReconstructPath walks parent links back from goal until a node with no
// parent (negative index) and returns the chain in start-to-goal order.
// An unreached goal (negative index) yields an empty path.
func ReconstructPath(parent func(int) int, goal int) []int {
	if goal < 0 {
		return nil
	}
	path := []int{goal}
	for current := parent(goal); current >= 0; current = parent(current) {
		path = append(path, current)
	}
	// reverse path
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
