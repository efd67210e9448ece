package bench

import (
	"errors"
	"strings"
	"testing"
)

func TestIssues_ErrorFormatsCodeAndOffset(t *testing.T) {
	iss := AppendIssue(nil, CodeUnknownAttribute, "unknown attribute \"foo\"", 42)
	msg := iss.Error()
	if !strings.Contains(msg, CodeUnknownAttribute) {
		t.Fatalf("expected message to contain the code, got %q", msg)
	}
	if !strings.Contains(msg, "42") {
		t.Fatalf("expected message to contain the offset, got %q", msg)
	}
}

func TestIssues_ErrorTruncatesLongLists(t *testing.T) {
	var iss Issues
	for i := 0; i < 10; i++ {
		iss = AppendIssue(iss, CodeInvalidNumber, "bad number", int64(i))
	}
	msg := iss.Error()
	if !strings.Contains(msg, "total 10") {
		t.Fatalf("expected a truncation summary mentioning the total count, got %q", msg)
	}
}

func TestAsIssues_RejectsFlattenedErrorAndExtractsOriginal(t *testing.T) {
	original := fatalf(5, CodeMissingEquals, "bad token")
	wrapped := errors.New("context: " + original.Error())
	if _, ok := AsIssues(wrapped); ok {
		t.Fatalf("a plain errors.New should not be extractable as Issues")
	}
	if iss, ok := AsIssues(original); !ok || len(iss) != 1 {
		t.Fatalf("expected to extract exactly one Issue, got ok=%v len=%d", ok, len(iss))
	}
}

func TestFatalIO_CarriesCauseAndPath(t *testing.T) {
	cause := errors.New("disk full")
	err := fatalIO("my-segment", cause)
	iss, ok := AsIssues(err)
	if !ok || len(iss) != 1 {
		t.Fatalf("expected exactly one Issue")
	}
	if iss[0].Path != "my-segment" {
		t.Fatalf("path: got %q, want my-segment", iss[0].Path)
	}
	if iss[0].Code != CodeIO {
		t.Fatalf("code: got %q, want %q", iss[0].Code, CodeIO)
	}
	if !errors.Is(iss[0].Cause, cause) {
		t.Fatalf("expected Cause to be the original error")
	}
}
