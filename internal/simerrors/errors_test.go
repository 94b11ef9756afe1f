package simerrors

import (
	"errors"
	"testing"
)

func TestNewConfigInvalidFormatsMessage(t *testing.T) {
	err := NewConfigInvalid("general.stop_time %q is invalid", "abc")
	if err.Error() != `config invalid: general.stop_time "abc" is invalid` {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestNewGmlParseErrorIncludesPosition(t *testing.T) {
	err := NewGmlParseError(42, "unexpected token %q", "}")
	if err.Pos != 42 {
		t.Fatalf("expected pos 42, got %d", err.Pos)
	}
	if err.Error() != `gml parse error at 42: unexpected token "}"` {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestNewGmlSemanticErrorIncludesKind(t *testing.T) {
	err := NewGmlSemanticError("DuplicateNodeId", "node %d appears twice", 3)
	if err.Error() != "DuplicateNodeId: node 3 appears twice" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestNewIpConflictIncludesBothAgents(t *testing.T) {
	err := NewIpConflict("10.0.0.1", "user000", "user001")
	if err.ExistingAgent != "user000" || err.NewAgent != "user001" {
		t.Fatalf("unexpected fields: %+v", err)
	}
	if err.Error() != "IP 10.0.0.1 already assigned to agent user000" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestLogReadErrorUnwrapsUnderlyingError(t *testing.T) {
	inner := errors.New("permission denied")
	err := &LogReadError{Path: "/data/node0/synnergyd.log", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatalf("expected errors.Is to find the wrapped error via Unwrap")
	}
}
