package gtr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gedtree/gedtree/pkg/gedcom"
)

var (
	// ErrUnknownReference is returned by [Build] when a family record
	// references an individual that does not exist in the document.
	ErrUnknownReference = errors.New("unknown individual reference")

	// ErrDuplicateChildFamily is returned by [Build] when an individual is
	// listed as a child of more than one family. A person has at most one
	// child-family; violating inputs are a data-integrity error.
	ErrDuplicateChildFamily = errors.New("person is a child of multiple families")

	// ErrDuplicateRecord is returned by [Build] when two records share a
	// cross-reference identifier.
	ErrDuplicateRecord = errors.New("duplicate cross-reference identifier")
)

// Graph is the bidirectional family graph built from a GEDCOM document.
// After [Build] returns, the graph is read-only: persons and families
// reference each other but are never mutated by traversal or
// serialization.
type Graph struct {
	persons  map[string]*Person
	order    []*Person
	families []*Family
}

// Build constructs the family graph in two passes. The first pass creates
// every Person from the INDI records and indexes them by xref id; the
// second creates every Family from the FAM records, resolves its member
// references against the index, and links families and persons
// bidirectionally. The pass order is load-bearing: family resolution
// requires the complete person index.
func Build(doc *gedcom.Document) (*Graph, error) {
	g := &Graph{persons: make(map[string]*Person)}

	for _, rec := range doc.RecordsByTag("INDI") {
		p, err := NewPerson(rec)
		if err != nil {
			return nil, fmt.Errorf("individual %s: %w", rec.XrefID(), err)
		}
		if _, exists := g.persons[p.ID]; exists {
			return nil, fmt.Errorf("individual %s: %w", p.ID, ErrDuplicateRecord)
		}
		g.persons[p.ID] = p
		g.order = append(g.order, p)
	}

	for _, rec := range doc.RecordsByTag("FAM") {
		fam, err := g.buildFamily(rec)
		if err != nil {
			return nil, err
		}
		g.families = append(g.families, fam)

		for _, parent := range fam.Parents {
			parent.ParentFamilies = append(parent.ParentFamilies, fam)
		}
		for _, child := range fam.Children {
			if child.ChildFamily != nil {
				return nil, fmt.Errorf("person %s is a child of both %s and %s: %w",
					child.ID, child.ChildFamily.ID, fam.ID, ErrDuplicateChildFamily)
			}
			child.ChildFamily = fam
		}
	}

	return g, nil
}

// buildFamily converts one FAM record, resolving parent and child
// references against the person index.
func (g *Graph) buildFamily(rec *gedcom.Record) (*Family, error) {
	fam := &Family{ID: rec.XrefID()}

	for _, tag := range []string{"HUSB", "WIFE"} {
		sub := rec.Sub(tag)
		if sub == nil {
			continue
		}
		parent, err := g.resolve(sub.Value, fam.ID)
		if err != nil {
			return nil, err
		}
		fam.Parents = append(fam.Parents, parent)
	}

	for _, sub := range rec.SubAll("CHIL") {
		child, err := g.resolve(sub.Value, fam.ID)
		if err != nil {
			return nil, err
		}
		fam.Children = append(fam.Children, child)
	}

	marriage, err := eventFromRecord(rec.Sub("MARR"))
	if err != nil {
		return nil, fmt.Errorf("family %s: %w", fam.ID, err)
	}
	fam.Marriage = marriage

	return fam, nil
}

// resolve looks up a pointer value like "@I1@" in the person index.
func (g *Graph) resolve(pointer, familyID string) (*Person, error) {
	id := trimXref(pointer)
	p, ok := g.persons[id]
	if !ok {
		return nil, fmt.Errorf("family %s references %s: %w", familyID, id, ErrUnknownReference)
	}
	return p, nil
}

func trimXref(pointer string) string {
	return strings.Trim(pointer, "@")
}

// Person returns the person with the given xref id (without "@"
// delimiters) and true, or nil and false if not found.
func (g *Graph) Person(id string) (*Person, bool) {
	p, ok := g.persons[id]
	return p, ok
}

// Persons returns all persons in source order.
func (g *Graph) Persons() []*Person { return g.order }

// Families returns all families in source order.
func (g *Graph) Families() []*Family { return g.families }

// PersonCount returns the number of persons in the graph.
func (g *Graph) PersonCount() int { return len(g.persons) }

// FamilyCount returns the number of families in the graph.
func (g *Graph) FamilyCount() int { return len(g.families) }
