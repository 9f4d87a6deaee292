package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodePersonNotFound, "no person with id %s", "I42")

	if err.Code != ErrCodePersonNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrCodePersonNotFound)
	}
	if err.Message != "no person with id I42" {
		t.Errorf("Message = %q", err.Message)
	}
	want := "PERSON_NOT_FOUND: no person with id I42"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("file corrupt")
	err := Wrap(ErrCodeParse, cause, "parsing %s", "family.ged")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match its cause with errors.Is")
	}
	want := "PARSE_ERROR: parsing family.ged: file corrupt"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeInvalidLimit, "bad limit")

	if !Is(err, ErrCodeInvalidLimit) {
		t.Error("Is() = false for matching code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is() = true for non-matching code")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is() = true for plain error")
	}

	// Matches through wrapping
	wrapped := fmt.Errorf("context: %w", err)
	if !Is(wrapped, ErrCodeInvalidLimit) {
		t.Error("Is() should unwrap to find the code")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeStorage, "boom")); got != ErrCodeStorage {
		t.Errorf("GetCode() = %q, want %q", got, ErrCodeStorage)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeDatasetNotFound, "no dataset with id abc")
	if got := UserMessage(err); got != "no dataset with id abc" {
		t.Errorf("UserMessage() = %q", got)
	}

	plain := stderrors.New("plain failure")
	if got := UserMessage(plain); got != "plain failure" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
