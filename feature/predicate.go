package feature

import "context"

/*
Predicate is a conjunction of discrete criteria. The order of the criteria
is the order in which they were added (the path from the root of a tree) and
only matters for display: the conjunction is commutative. The empty
predicate is satisfied by every sample.
*/
type Predicate []DiscreteCriterion

/*
And returns a new predicate with the criteria of p followed by c. The
receiver is left untouched so siblings can share their parent's predicate.
*/
func (p Predicate) And(c DiscreteCriterion) Predicate {
	np := make(Predicate, len(p), len(p)+1)
	copy(np, p)
	return append(np, c)
}

// SatisfiedBy returns whether the sample satisfies every criterion in p.
func (p Predicate) SatisfiedBy(ctx context.Context, sample Sample) (bool, error) {
	for _, c := range p {
		ok, err := c.SatisfiedBy(ctx, sample)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

// Features returns the names of the features constrained by p.
func (p Predicate) Features() []string {
	names := make([]string, 0, len(p))
	for _, c := range p {
		names = append(names, c.Feature().Name())
	}
	return names
}

// Uses returns whether p constrains the feature with the given name.
func (p Predicate) Uses(name string) bool {
	for _, c := range p {
		if c.Feature().Name() == name {
			return true
		}
	}
	return false
}

// Clauses returns the "feature=value" strings of the criteria in p.
func (p Predicate) Clauses() []string {
	clauses := make([]string, 0, len(p))
	for _, c := range p {
		clauses = append(clauses, c.String())
	}
	return clauses
}

// Criteria returns the criteria of p as a slice of Criterion.
func (p Predicate) Criteria() []Criterion {
	criteria := make([]Criterion, 0, len(p))
	for _, c := range p {
		criteria = append(criteria, c)
	}
	return criteria
}
