package main

import "testing"

func TestOutputPath_SingleDocumentAtZeroIsVerbatim(t *testing.T) {
	if got := outputPath("order.xml", 1, 0, 0); got != "order.xml" {
		t.Fatalf("got %q, want order.xml", got)
	}
}

func TestOutputPath_MultipleDocumentsSpliceIndexBeforeExtension(t *testing.T) {
	if got := outputPath("order.xml", 10, 0, 7); got != "order007.xml" {
		t.Fatalf("got %q, want order007.xml", got)
	}
}

func TestOutputPath_NoExtensionAppendsIndex(t *testing.T) {
	if got := outputPath("order", 10, 0, 3); got != "order003" {
		t.Fatalf("got %q, want order003", got)
	}
}

func TestOutputPath_NonZeroStartWidthsByFinalIndex(t *testing.T) {
	// startNum=95, numDocs=10 -> final index 104, so width is 3 digits.
	if got := outputPath("order.xml", 10, 95, 95); got != "order095.xml" {
		t.Fatalf("got %q, want order095.xml", got)
	}
	if got := outputPath("order.xml", 10, 95, 104); got != "order104.xml" {
		t.Fatalf("got %q, want order104.xml", got)
	}
}

func TestOutputPath_SingleDocumentAtNonZeroStartStillIndexes(t *testing.T) {
	// docNum != 0 even though numDocs==1, so the verbatim shortcut doesn't apply.
	if got := outputPath("order.xml", 1, 5, 5); got != "order5.xml" {
		t.Fatalf("got %q, want order5.xml", got)
	}
}

func TestParseArgs_KeyValuePairs(t *testing.T) {
	got, err := parseArgs([]string{"template=order.tmpl", "NUM=5", "out=order.xml"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["template"] != "order.tmpl" {
		t.Fatalf("template: got %q", got["template"])
	}
	if got["num"] != "5" {
		t.Fatalf("num: got %q", got["num"])
	}
	if got["out"] != "order.xml" {
		t.Fatalf("out: got %q", got["out"])
	}
}

func TestParseArgs_MissingEqualsErrors(t *testing.T) {
	if _, err := parseArgs([]string{"bogus"}); err == nil {
		t.Fatalf("expected an error for a token with no '='")
	}
}
