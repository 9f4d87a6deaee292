package gtr

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Unlimited disables a generation limit.
const Unlimited = -1

// Options configures the sandclock serialization.
type Options struct {
	// Siblings includes the focal person's siblings.
	Siblings bool

	// AncestorSiblings includes the siblings of ancestors beyond the focal
	// person's own generation (aunts, great-aunts, ...).
	AncestorSiblings bool

	// MaxAncestorGenerations bounds the upward traversal depth. Unlimited
	// (-1) follows the data; 0 omits the ancestor subtree entirely.
	MaxAncestorGenerations int

	// MaxDescendantGenerations bounds the downward traversal depth.
	MaxDescendantGenerations int

	// DynamicLimits transfers unused budget from one direction to the
	// other before serialization (see BalanceLimits).
	DynamicLimits bool

	// Logger receives warnings about tolerated data oddities (multiple
	// parent-families). A nil logger discards them.
	Logger *log.Logger
}

// DefaultOptions returns the options used when no flags are given:
// siblings in both directions, no generation limits, static limits.
func DefaultOptions() Options {
	return Options{
		Siblings:                 true,
		AncestorSiblings:         true,
		MaxAncestorGenerations:   Unlimited,
		MaxDescendantGenerations: Unlimited,
	}
}

// Validate rejects generation limits below Unlimited (-1).
func (o Options) Validate() error {
	if o.MaxAncestorGenerations < Unlimited {
		return fmt.Errorf("max ancestor generations must be >= -1, got %d", o.MaxAncestorGenerations)
	}
	if o.MaxDescendantGenerations < Unlimited {
		return fmt.Errorf("max descendant generations must be >= -1, got %d", o.MaxDescendantGenerations)
	}
	return nil
}

// Sandclock serializes the sandclock view of p: the full descendant
// subtree below the focal person and the ancestor subtree with sibling
// context above, as a single genealogytree database expression.
//
// The output is deterministic: node order follows the source order of the
// underlying records, so serializing the same graph twice yields identical
// bytes.
func Sandclock(p *Person, opts Options) (string, error) {
	if err := opts.Validate(); err != nil {
		return "", err
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	ancestors := opts.MaxAncestorGenerations
	descendants := opts.MaxDescendantGenerations
	if opts.DynamicLimits {
		ancestors, descendants = BalanceLimits(p, ancestors, descendants)
		logger.Debugf("Balanced generation limits: ancestors=%d descendants=%d", ancestors, descendants)
	}

	s := &serializer{opts: opts, logger: logger}
	s.sandclock(p, ancestors, descendants)
	return s.b.String(), nil
}

// serializer carries the output buffer and flags through the recursion.
// The generation budget is passed explicitly: it differs per branch.
type serializer struct {
	b      strings.Builder
	opts   Options
	logger *log.Logger
}

// sandclock writes the outer node. Its option clause names the focal
// person's child-family (the family the ancestor subtree hangs off), when
// one exists.
func (s *serializer) sandclock(p *Person, ancestorBudget, descendantBudget int) {
	s.b.WriteString("sandclock")
	if p.ChildFamily != nil {
		s.familyOptions(p.ChildFamily)
	}
	s.b.WriteByte('{')
	s.childNode(p, descendantBudget)
	s.parentNodeBody(p, s.opts.Siblings, s.opts.AncestorSiblings, ancestorBudget)
	s.b.WriteByte('}')
}

// childNode writes the descendant subtree rooted at p. A person with no
// parent-family, or an exhausted budget, renders as a terminal "c" leaf.
// Otherwise the person's parent-family becomes a "child" branch holding
// the person as "g", their partners as "p" leaves, and each child as a
// nested descendant subtree one budget step deeper.
func (s *serializer) childNode(p *Person, budget int) {
	family := s.parentFamily(p)
	if family == nil || budget == 0 {
		s.b.WriteString(p.GTR("c", true))
		return
	}

	s.b.WriteString("child")
	s.familyOptions(family)
	s.b.WriteByte('{')
	s.b.WriteString(p.GTR("g", true))
	for _, parent := range family.Parents {
		if parent != p {
			s.b.WriteString(parent.GTR("p", true))
		}
	}
	for _, child := range family.Children {
		s.childNode(child, decrement(budget))
	}
	s.b.WriteByte('}')
}

// parentNode writes the ancestor subtree rooted at p. A person with no
// child-family, or an exhausted budget, renders as a terminal "p" leaf.
// The budget is decremented when descending into the node's body, so a
// budget of N expands exactly N ancestor families.
func (s *serializer) parentNode(p *Person, siblingsHere, siblingsBeyond bool, budget int) {
	family := p.ChildFamily
	if family == nil || budget == 0 {
		s.b.WriteString(p.GTR("p", true))
		return
	}

	s.b.WriteString("parent")
	s.familyOptions(family)
	s.b.WriteByte('{')
	s.b.WriteString(p.GTR("g", true))
	s.parentNodeBody(p, siblingsHere, siblingsBeyond, decrement(budget))
	s.b.WriteByte('}')
}

// parentNodeBody writes the contents of p's child-family: a parentNode per
// parent, then p's siblings as terminal "c" leaves when siblingsHere is
// set. Beyond this level the sibling policy collapses to a single flag,
// so siblingsBeyond is passed as both flags for the deeper calls.
// Siblings are only listed, never expanded; p is excluded from the
// listing by identity.
func (s *serializer) parentNodeBody(p *Person, siblingsHere, siblingsBeyond bool, budget int) {
	family := p.ChildFamily
	if family == nil || budget == 0 {
		return
	}
	for _, parent := range family.Parents {
		s.parentNode(parent, siblingsBeyond, siblingsBeyond, budget)
	}
	if siblingsHere {
		for _, child := range family.Children {
			if child != p {
				s.b.WriteString(child.GTR("c", true))
			}
		}
	}
}

// familyOptions writes the bracketed option clause of a family node.
func (s *serializer) familyOptions(f *Family) {
	s.b.WriteByte('[')
	s.b.WriteString(f.Options())
	s.b.WriteByte(']')
}

// parentFamily returns the family in which p is a parent. Multiple
// parent-families (remarriage, polygamy) are not supported; the first one
// in source order wins and a warning is logged.
func (s *serializer) parentFamily(p *Person) *Family {
	if len(p.ParentFamilies) == 0 {
		return nil
	}
	if len(p.ParentFamilies) > 1 {
		s.logger.Warnf("Person %s has multiple parent families, using %s",
			p.ID, p.ParentFamilies[0].ID)
	}
	return p.ParentFamilies[0]
}

// decrement spends one generation of budget, keeping Unlimited unlimited.
func decrement(budget int) int {
	if budget < 0 {
		return Unlimited
	}
	return budget - 1
}
