// Package render renders family graphs as node-link diagrams.
//
// The genealogytree output of [gtr.Sandclock] targets LaTeX; this package
// provides a direct visual alternative. [ToDOT] converts the sandclock
// selection around a focal person into Graphviz DOT, and [RenderSVG] and
// [RenderPNG] rasterize it using the embedded Graphviz engine.
//
//	dot := render.ToDOT(person, gtr.DefaultOptions())
//	svg, err := render.RenderSVG(dot)
package render

import (
	"bytes"
	"fmt"

	"github.com/gedtree/gedtree/pkg/gtr"
)

// collector accumulates the persons and families reachable from the focal
// person under the configured generation limits. Insertion order is kept
// so the emitted DOT is deterministic.
type collector struct {
	opts gtr.Options

	persons     map[string]*gtr.Person
	personOrder []*gtr.Person
	families    map[string]*gtr.Family
	familyOrder []*gtr.Family
}

// ToDOT converts the subgraph around the focal person into Graphviz DOT.
// The selection mirrors the sandclock serialization: descendants down to
// MaxDescendantGenerations, ancestors up to MaxAncestorGenerations, with
// siblings included per the sibling flags. Persons render as boxes colored
// by sex, families as junction points between parents and children.
func ToDOT(p *gtr.Person, opts gtr.Options) string {
	c := &collector{
		opts:     opts,
		persons:  make(map[string]*gtr.Person),
		families: make(map[string]*gtr.Family),
	}

	ancestors := opts.MaxAncestorGenerations
	descendants := opts.MaxDescendantGenerations
	if opts.DynamicLimits {
		ancestors, descendants = gtr.BalanceLimits(p, ancestors, descendants)
	}

	c.descend(p, descendants)
	c.ascend(p, opts.Siblings, opts.AncestorSiblings, ancestors)

	var buf bytes.Buffer
	buf.WriteString("digraph gedtree {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=12, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [arrowhead=none];\n")
	buf.WriteString("\n")

	for _, person := range c.personOrder {
		attrs := fmt.Sprintf("label=%q, fillcolor=%s", personLabel(person), sexColor(person))
		if person == p {
			attrs += ", penwidth=2"
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", person.ID, attrs)
	}

	buf.WriteString("\n")
	for _, family := range c.familyOrder {
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.1, fillcolor=black];\n", family.ID)
		for _, parent := range family.Parents {
			if _, ok := c.persons[parent.ID]; ok {
				fmt.Fprintf(&buf, "  %q -> %q;\n", parent.ID, family.ID)
			}
		}
		for _, child := range family.Children {
			if _, ok := c.persons[child.ID]; ok {
				fmt.Fprintf(&buf, "  %q -> %q;\n", family.ID, child.ID)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// descend walks the descendant subtree, mirroring the sandclock child
// recursion: partners appear as leaves, each child one budget step deeper.
func (c *collector) descend(p *gtr.Person, budget int) {
	c.addPerson(p)
	if len(p.ParentFamilies) == 0 || budget == 0 {
		return
	}

	family := p.ParentFamilies[0]
	c.addFamily(family)
	for _, parent := range family.Parents {
		if parent != p {
			c.addPerson(parent)
		}
	}
	for _, child := range family.Children {
		c.descend(child, spend(budget))
	}
}

// ascend walks the ancestor subtree. The sibling policy collapses to a
// single flag beyond the focal level, like in the sandclock body.
func (c *collector) ascend(p *gtr.Person, siblingsHere, siblingsBeyond bool, budget int) {
	family := p.ChildFamily
	if family == nil || budget == 0 {
		return
	}

	c.addFamily(family)
	for _, parent := range family.Parents {
		c.addPerson(parent)
		c.ascend(parent, siblingsBeyond, siblingsBeyond, spend(budget))
	}
	if siblingsHere {
		for _, child := range family.Children {
			if child != p {
				c.addPerson(child)
			}
		}
	}
}

func (c *collector) addPerson(p *gtr.Person) {
	if _, ok := c.persons[p.ID]; ok {
		return
	}
	c.persons[p.ID] = p
	c.personOrder = append(c.personOrder, p)
}

func (c *collector) addFamily(f *gtr.Family) {
	if _, ok := c.families[f.ID]; ok {
		return
	}
	c.families[f.ID] = f
	c.familyOrder = append(c.familyOrder, f)
}

func personLabel(p *gtr.Person) string {
	if p.Name == "" {
		return p.ID
	}
	return p.Name + "\n" + p.ID
}

func sexColor(p *gtr.Person) string {
	switch p.Sex() {
	case "male":
		return "lightblue"
	case "female":
		return "lightpink"
	default:
		return "white"
	}
}

// spend uses one generation of budget, keeping -1 unlimited.
func spend(budget int) int {
	if budget < 0 {
		return budget
	}
	return budget - 1
}
