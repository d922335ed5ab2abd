package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewMappingIncomplete(t *testing.T) {
	err := NewMappingIncomplete([]string{"Date", "Amount (or Inflow/Outflow)"})

	if err.Category != CategoryMapping {
		t.Errorf("Expected mapping category, got %s", err.Category)
	}
	if !strings.Contains(err.UserMessage(), "Date") {
		t.Errorf("Expected missing field labels in message, got %q", err.UserMessage())
	}
	if !strings.Contains(err.UserMessage(), "Amount (or Inflow/Outflow)") {
		t.Errorf("Expected amount label in message, got %q", err.UserMessage())
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewMatchQueryFailure(cause)

	if err.Unwrap() != cause {
		t.Error("Expected Unwrap to return the cause")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected cause in Error(), got %q", err.Error())
	}
	if strings.Contains(err.UserMessage(), "connection refused") {
		t.Errorf("Expected cause excluded from user message, got %q", err.UserMessage())
	}
}

func TestNewPersistenceFailureCodes(t *testing.T) {
	save := NewPersistenceFailure("save bank import", fmt.Errorf("boom"))
	if save.Code != CodeSaveFailed {
		t.Errorf("Expected save_failed code, got %s", save.Code)
	}

	status := NewPersistenceFailure("set reconciliation status", fmt.Errorf("boom"))
	if status.Code != CodeStatusFailed {
		t.Errorf("Expected status_failed code, got %s", status.Code)
	}
}

func TestIsCategory(t *testing.T) {
	err := NewParseFailure("no data")

	if !IsCategory(err, CategoryParse) {
		t.Error("Expected parse category match")
	}
	if IsCategory(err, CategoryPersistence) {
		t.Error("Expected persistence category to not match")
	}
	if IsCategory(fmt.Errorf("plain"), CategoryParse) {
		t.Error("Expected plain errors to not match any category")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !IsCategory(wrapped, CategoryParse) {
		t.Error("Expected category match through wrapping")
	}
}

func TestErrorStackCaptured(t *testing.T) {
	err := NewParseFailure("no data")
	if len(err.Stack) == 0 {
		t.Error("Expected a captured stack trace")
	}
}
