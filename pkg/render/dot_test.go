package render

import (
	"strings"
	"testing"

	"github.com/gedtree/gedtree/pkg/gedcom"
	"github.com/gedtree/gedtree/pkg/gtr"
)

const testDocument = `0 HEAD
0 @I1@ INDI
1 NAME John /Smith/
1 SEX M
1 FAMS @F1@
0 @I2@ INDI
1 NAME Jane /Miller/
1 SEX F
1 FAMS @F1@
0 @I3@ INDI
1 NAME Tom /Smith/
1 SEX M
1 FAMC @F1@
0 @I4@ INDI
1 NAME Sue /Smith/
1 FAMC @F1@
0 @F1@ FAM
1 HUSB @I1@
1 WIFE @I2@
1 CHIL @I3@
1 CHIL @I4@
0 TRLR
`

func buildGraph(t *testing.T) *gtr.Graph {
	t.Helper()
	doc, err := gedcom.Parse(strings.NewReader(testDocument))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	graph, err := gtr.Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return graph
}

func TestToDOT(t *testing.T) {
	graph := buildGraph(t)
	focal, ok := graph.Person("I3")
	if !ok {
		t.Fatal("person I3 not found")
	}

	dot := ToDOT(focal, gtr.DefaultOptions())

	for _, want := range []string{
		`"I3" [label="Tom Smith\nI3", fillcolor=lightblue, penwidth=2];`,
		`"I1" [label="John Smith\nI1", fillcolor=lightblue];`,
		`"I2" [label="Jane Miller\nI2", fillcolor=lightpink];`,
		`"I4" [label="Sue Smith\nI4", fillcolor=white];`,
		`"F1" [shape=point, width=0.1, fillcolor=black];`,
		`"I1" -> "F1";`,
		`"I2" -> "F1";`,
		`"F1" -> "I3";`,
		`"F1" -> "I4";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\noutput:\n%s", want, dot)
		}
	}
}

func TestToDOTNoSiblings(t *testing.T) {
	graph := buildGraph(t)
	focal, _ := graph.Person("I3")

	opts := gtr.DefaultOptions()
	opts.Siblings = false
	dot := ToDOT(focal, opts)

	if strings.Contains(dot, `"I4"`) {
		t.Errorf("ToDOT() with Siblings=false still contains sibling I4:\n%s", dot)
	}
	if !strings.Contains(dot, `"I1"`) || !strings.Contains(dot, `"I2"`) {
		t.Errorf("ToDOT() dropped parents:\n%s", dot)
	}
}

func TestToDOTAncestorLimit(t *testing.T) {
	graph := buildGraph(t)
	focal, _ := graph.Person("I3")

	opts := gtr.DefaultOptions()
	opts.MaxAncestorGenerations = 0
	dot := ToDOT(focal, opts)

	if strings.Contains(dot, `"F1"`) {
		t.Errorf("ToDOT() with ancestor limit 0 still contains family F1:\n%s", dot)
	}
	if !strings.Contains(dot, `"I3"`) {
		t.Errorf("ToDOT() missing focal person:\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<?xml version="1.0"?>
<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg">
<g></g>
</svg>`)

	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.00 50.00" width="100" height="50">`
	if !strings.Contains(out, want) {
		t.Errorf("normalizeViewBox() = %s, want to contain %s", out, want)
	}
}
