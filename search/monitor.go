package search

import "github.com/poiesic/mailsift/core"

// SearchMonitor provides hooks to observe the search pipeline.
// Implement this interface to track intermediate steps and results during search.
type SearchMonitor interface {
	Start(query string)
	AfterNormalize(cleaned []string)
	AfterEmbedding(model string, dimension int)
	AfterScoring(scores []float32)
	Finish(result *core.SearchResult)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ string)                 {}
func (n *noopMonitor) AfterNormalize(_ []string)      {}
func (n *noopMonitor) AfterEmbedding(_ string, _ int) {}
func (n *noopMonitor) AfterScoring(_ []float32)       {}
func (n *noopMonitor) Finish(_ *core.SearchResult)    {}
