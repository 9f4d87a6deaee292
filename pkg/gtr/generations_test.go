package gtr

import (
	"strings"
	"testing"

	"github.com/gedtree/gedtree/pkg/gedcom"
)

func TestGenerationCounts(t *testing.T) {
	g := testGraph(t)

	tests := []struct {
		person    string
		ancestors int
		descend   int
	}{
		{"I0006", 2, 2}, // grandparents above, grandchild below
		{"I0001", 0, 4},
		{"I0010", 4, 0},
		{"I0005", 0, 3}, // married in, no recorded parents
		{"I0003", 1, 0},
	}

	for _, tt := range tests {
		p := focalPerson(t, g, tt.person)
		if got := AncestorGenerations(p); got != tt.ancestors {
			t.Errorf("AncestorGenerations(%s) = %d, want %d", tt.person, got, tt.ancestors)
		}
		if got := DescendantGenerations(p); got != tt.descend {
			t.Errorf("DescendantGenerations(%s) = %d, want %d", tt.person, got, tt.descend)
		}
	}
}

func TestGenerationCountsCyclicInput(t *testing.T) {
	// Two families closing a loop: I1's parent is I2, whose parent is I1.
	// Such a file is malformed but must not hang the traversal.
	doc, err := gedcom.Parse(strings.NewReader(`0 @I1@ INDI
1 NAME A /B/
0 @I2@ INDI
1 NAME C /D/
0 @F1@ FAM
1 HUSB @I2@
1 CHIL @I1@
0 @F2@ FAM
1 HUSB @I1@
1 CHIL @I2@
0 TRLR
`))
	if err != nil {
		t.Fatal(err)
	}
	g, err := Build(doc)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	p := focalPerson(t, g, "I1")
	if got := AncestorGenerations(p); got != 2 {
		t.Errorf("AncestorGenerations() = %d, want 2", got)
	}
	if got := DescendantGenerations(p); got != 2 {
		t.Errorf("DescendantGenerations() = %d, want 2", got)
	}
}

func TestBalanceLimits(t *testing.T) {
	g := testGraph(t)
	focal := focalPerson(t, g, "I0006") // 2 ancestor and 2 descendant generations

	tests := []struct {
		name     string
		anc      int
		desc     int
		wantAnc  int
		wantDesc int
	}{
		{
			name: "descendant slack moves to ancestors",
			anc:  1, desc: 3, wantAnc: 2, wantDesc: 3,
		},
		{
			name: "ancestor slack moves to descendants",
			anc:  3, desc: 1, wantAnc: 3, wantDesc: 2,
		},
		{
			name: "both over stays unchanged",
			anc:  1, desc: 1, wantAnc: 1, wantDesc: 1,
		},
		{
			name: "neither over stays unchanged",
			anc:  3, desc: 3, wantAnc: 3, wantDesc: 3,
		},
		{
			name: "unlimited donor has no slack to give",
			anc:  -1, desc: 1, wantAnc: -1, wantDesc: 1,
		},
		{
			name: "exact limits stay unchanged",
			anc:  2, desc: 2, wantAnc: 2, wantDesc: 2,
		},
		{
			name: "both unlimited stays unchanged",
			anc:  -1, desc: -1, wantAnc: -1, wantDesc: -1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotAnc, gotDesc := BalanceLimits(focal, tt.anc, tt.desc)
			if gotAnc != tt.wantAnc || gotDesc != tt.wantDesc {
				t.Errorf("BalanceLimits(%d, %d) = (%d, %d), want (%d, %d)",
					tt.anc, tt.desc, gotAnc, gotDesc, tt.wantAnc, tt.wantDesc)
			}
		})
	}
}
