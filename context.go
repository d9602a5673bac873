package anyangle

import "github.com/pdrpinto/anyangle/internal/search"

// SearchContext holds scratch memory and a cached visibility graph that
// successive searches can share. A SearchContext runs one search at a time;
// a second concurrent Search on it fails with ErrContextInUse.
type SearchContext struct {
	inner *search.Context
}

// NewSearchContext returns an empty context. Its storage is sized by the
// first search that runs on it.
func NewSearchContext() *SearchContext {
	return &SearchContext{inner: search.NewContext()}
}

// CachedGraphs reports how many searches were served from the cached
// visibility graph instead of building a new one.
func (sc *SearchContext) CachedGraphs() int {
	return sc.inner.Graphs().Hits()
}

// ForgetGraph drops the cached visibility graph. Call it after editing a
// grid that earlier searches on this context used.
func (sc *SearchContext) ForgetGraph() {
	sc.inner.Graphs().Reset()
}
