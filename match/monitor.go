package match

import "github.com/poiesic/specmatch/core"

// MatchMonitor provides hooks to observe the matching process.
// Implement this interface to track intermediate steps and results while
// matching an RFP line item.
type MatchMonitor interface {
	Start(item *core.RFPItem)
	NormalizationIssue(itemID int, key core.AttributeKey, raw string, err error)
	AfterNormalization(itemID int, requirement core.AttributeRecord)
	AfterRetrieval(itemID int, hits []core.SimilarityHit)
	Scored(itemID int, result *core.MatchResult)
	Finish(ranked *core.RankedMatches)
}

// noopMonitor is a no-op implementation of MatchMonitor
type noopMonitor struct{}

var _ MatchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.RFPItem)                                           {}
func (n *noopMonitor) NormalizationIssue(_ int, _ core.AttributeKey, _ string, _ error) {}
func (n *noopMonitor) AfterNormalization(_ int, _ core.AttributeRecord)                 {}
func (n *noopMonitor) AfterRetrieval(_ int, _ []core.SimilarityHit)                     {}
func (n *noopMonitor) Scored(_ int, _ *core.MatchResult)                                {}
func (n *noopMonitor) Finish(_ *core.RankedMatches)                                     {}
