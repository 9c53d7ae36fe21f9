package orchard

import (
	"fmt"
)

// Default values for the thresholds of a Policy.
const (
	DefaultMinSupport    = 0.05
	DefaultMinConfidence = 0.9
)

// Policy holds the configuration that
// bounds how far a rule tree grows and
// which rules it yields.
type Policy struct {
	// MinSupport is the minimum fraction of
	// the whole dataset a node must cover to
	// be added to the tree.
	MinSupport float64
	// MinConfidence is the confidence floor:
	// only target values whose confidence on
	// a node is strictly greater than it are
	// kept on the node's confidence map.
	MinConfidence float64
	// MaxWidth is the maximum number of
	// children of a node, 0 for no limit.
	MaxWidth int
	// MaxDepth is the maximum depth of a node,
	// the root being at depth 0. 0 for no limit.
	MaxDepth int
	// ForcedFeature is the name of a feature
	// the root must be split on when possible.
	// It is ignored on the tree for that very
	// feature.
	ForcedFeature string
	// OrderedSplits makes nodes only split on
	// features declared after the one their
	// parent was split on, so a set of splits
	// is only explored in one order.
	OrderedSplits bool
}

// DefaultPolicy returns a Policy with the
// default thresholds and no limits.
func DefaultPolicy() Policy {
	return Policy{MinSupport: DefaultMinSupport, MinConfidence: DefaultMinConfidence}
}

/*
ConfigError is returned when a rule tree cannot be built
with the given dataset, target and policy.
*/
type ConfigError struct {
	Field  string
	Reason string
}

func (ce *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s %s", ce.Field, ce.Reason)
}

/*
Validate returns a *ConfigError if a threshold of the policy
falls outside [0, 1] or a limit is negative, nil otherwise.
*/
func (p Policy) Validate() error {
	if !(p.MinSupport >= 0 && p.MinSupport <= 1) {
		return &ConfigError{"min support", fmt.Sprintf("must be in [0, 1], got %v", p.MinSupport)}
	}
	if !(p.MinConfidence >= 0 && p.MinConfidence <= 1) {
		return &ConfigError{"min confidence", fmt.Sprintf("must be in [0, 1], got %v", p.MinConfidence)}
	}
	if p.MaxWidth < 0 {
		return &ConfigError{"max width", fmt.Sprintf("must not be negative, got %d", p.MaxWidth)}
	}
	if p.MaxDepth < 0 {
		return &ConfigError{"max depth", fmt.Sprintf("must not be negative, got %d", p.MaxDepth)}
	}
	return nil
}
