package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	err := CompilationFailed("orders_scan", fmt.Errorf("invalid opcode 0xFF"))

	msg := err.Error()
	if !strings.Contains(msg, "[compile]") {
		t.Fatalf("Expected phase in message, got %q", msg)
	}
	if !strings.Contains(msg, "compilation_failed") {
		t.Fatalf("Expected kind in message, got %q", msg)
	}
	if !strings.Contains(msg, "orders_scan") {
		t.Fatalf("Expected module name in message, got %q", msg)
	}
	if !strings.Contains(msg, "invalid opcode") {
		t.Fatalf("Expected cause in message, got %q", msg)
	}
}

func TestError_IDFormatting(t *testing.T) {
	err := UnknownID(42)
	if !strings.Contains(err.Error(), "id 42") {
		t.Fatalf("Expected id in message, got %q", err.Error())
	}
}

func TestError_Is(t *testing.T) {
	err := DuplicateTransfer(7)

	// Matches on phase+kind regardless of id
	if !stderrors.Is(err, DuplicateTransfer(99)) {
		t.Fatal("Expected match on phase+kind")
	}

	// Different kind does not match
	if stderrors.Is(err, UnknownID(7)) {
		t.Fatal("Expected no match across kinds")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("backend rejected input")
	err := CompilationFailed("m", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("Expected unwrap to reach the cause")
	}
}

func TestMissingFunction_Fields(t *testing.T) {
	err := MissingFunction("m", "f1")
	if err.Phase != PhaseInstall || err.Kind != KindMissingFunction {
		t.Fatalf("Unexpected taxonomy: %s/%s", err.Phase, err.Kind)
	}
	if !strings.Contains(err.Error(), "function f1") {
		t.Fatalf("Expected function name in message, got %q", err.Error())
	}
}
