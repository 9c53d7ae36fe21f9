package orchard

import "time"

/*
Observer is notified of the progress of rule mining. Implementations must be
safe for concurrent use, as an Orchard grows several trees at once.
*/
type Observer interface {
	// NodeExpanded is called after a node of the tree for the target
	// has been processed, with the number of children added to it.
	NodeExpanded(target string, children int)
	// TreeGrown is called when the tree for the target is complete.
	TreeGrown(target string, nodes int, elapsed time.Duration)
	// RulesExtracted is called with the number of rules obtained from
	// the tree for the target.
	RulesExtracted(target string, rules int)
	// TargetFailed is called when mining rules for the target failed.
	TargetFailed(target string)
}

type nopObserver struct{}

func (nopObserver) NodeExpanded(string, int) {}
func (nopObserver) TreeGrown(string, int, time.Duration) {}
func (nopObserver) RulesExtracted(string, int) {}
func (nopObserver) TargetFailed(string) {}
