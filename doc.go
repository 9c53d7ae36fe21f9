/*
Package orchard mines "if antecedent then consequent" rules from categorical
datasets by growing one entropy-guided decision tree per target feature.

A RuleTree is grown breadth-first from a root covering the whole dataset.
Every node is split on the feature that leaves the least weighted entropy of
the target, each value of that feature yielding a child whose predicate adds
the clause feature=value. Children covering less than the minimum support are
not added, and a node keeps only the target values whose confidence is over
the confidence floor. Every kept value on a non-root node becomes a rule.

An Orchard grows the trees for several targets concurrently and gathers
their rules into a single table.
*/
package orchard
