package errors

import (
	"strings"
	"testing"
)

func TestValidateXref(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{name: "plain id", id: "I0006"},
		{name: "delimited id", id: "@I0006@"},
		{name: "underscores and dashes", id: "X_1-a"},
		{name: "empty", id: "", wantErr: true},
		{name: "only delimiters", id: "@@", wantErr: true},
		{name: "embedded at sign", id: "I0@06", wantErr: true},
		{name: "whitespace", id: "I 6", wantErr: true},
		{name: "control character", id: "I6\x00", wantErr: true},
		{name: "too long", id: strings.Repeat("X", 65), wantErr: true},
		{name: "max length ok", id: strings.Repeat("X", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateXref(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateXref(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidXref {
				t.Errorf("code = %q, want %q", GetCode(err), ErrCodeInvalidXref)
			}
		})
	}
}

func TestValidateGenerationLimit(t *testing.T) {
	for _, limit := range []int{-1, 0, 1, 100} {
		if err := ValidateGenerationLimit("max-ancestor-generations", limit); err != nil {
			t.Errorf("ValidateGenerationLimit(%d) error = %v, want nil", limit, err)
		}
	}
	for _, limit := range []int{-2, -100} {
		err := ValidateGenerationLimit("max-ancestor-generations", limit)
		if err == nil {
			t.Errorf("ValidateGenerationLimit(%d) error = nil, want error", limit)
			continue
		}
		if GetCode(err) != ErrCodeInvalidLimit {
			t.Errorf("code = %q, want %q", GetCode(err), ErrCodeInvalidLimit)
		}
		if !strings.Contains(err.Error(), "max-ancestor-generations") {
			t.Errorf("error should name the limit: %v", err)
		}
	}
}
