package gtr

import (
	"testing"

	"github.com/gedtree/gedtree/pkg/gedcom"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "full date", input: "1 JAN 1900", want: "(AD)1900-01-01"},
		{name: "month and year", input: "DEC 1895", want: "(AD)1895-12"},
		{name: "year only", input: "1850", want: "(AD)1850"},
		{name: "bc year", input: "44 BC", want: "(BC)44"},
		{name: "bc with month and day", input: "15 MAR 44 BC", want: "(BC)44-03-15"},
		{name: "period", input: "FROM 1900 TO 1910", want: "(AD)1900/(AD)1910"},
		{name: "range", input: "BET 1 JAN 1900 AND 5 MAR 1901", want: "(AD)1900-01-01/(AD)1901-03-05"},
		{name: "open from", input: "FROM 1900", want: "(AD)1900/"},
		{name: "after", input: "AFT JUN 1900", want: "(AD)1900-06/"},
		{name: "open to", input: "TO 1910", want: "/(AD)1910"},
		{name: "before", input: "BEF 1910", want: "/(AD)1910"},
		{name: "about", input: "ABT 1850", want: "(caAD)1850"},
		{name: "about bc", input: "ABT 50 BC", want: "(caBC)50"},
		{name: "calculated", input: "CAL 5 MAY 1851", want: "(caAD)1851-05-05"},
		{name: "estimated", input: "EST 1852", want: "(caAD)1852"},
		{name: "interpreted drops phrase", input: "INT 1900 (turn of the century)", want: "(caAD)1900"},
		{name: "phrase only", input: "(deceased)", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dv, err := gedcom.ParseDate(tt.input)
			if err != nil {
				t.Fatalf("ParseDate(%q) error = %v", tt.input, err)
			}
			if got := FormatDate(dv); got != tt.want {
				t.Errorf("FormatDate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatDateNil(t *testing.T) {
	if got := FormatDate(nil); got != "" {
		t.Errorf("FormatDate(nil) = %q, want empty", got)
	}
}
