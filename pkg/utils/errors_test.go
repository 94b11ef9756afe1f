package utils

import (
	"errors"
	"testing"
)

func TestWrapAddsContext(t *testing.T) {
	inner := errors.New("boom")
	wrapped := Wrap(inner, "load config")
	if wrapped.Error() != "load config: boom" {
		t.Fatalf("unexpected message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, inner) {
		t.Fatalf("expected errors.Is to find the wrapped error")
	}
}

func TestWrapNilReturnsNil(t *testing.T) {
	if Wrap(nil, "load config") != nil {
		t.Fatalf("expected nil when wrapping a nil error")
	}
}
