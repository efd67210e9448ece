package bench

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeMissingEndTag      = "missing_end_tag"
	CodeUnknownSegment     = "unknown_segment"
	CodeMismatchedBlock    = "mismatched_block_name"
	CodeMissingEquals      = "missing_equals"
	CodeTemplateTooLarge   = "template_too_large"
	CodeUnknownAttribute   = "unknown_attribute"
	CodeInvalidNumber      = "invalid_number"
	CodeInvalidRatio       = "invalid_ratio"
	CodeInvalidCondition   = "invalid_condition"
	CodeInvalidDateField   = "invalid_date_field"
	CodeMissingWordFile    = "missing_word_file"
	CodeZipfEmptyRange     = "zipf_empty_range"
	CodeIncludeDepth       = "include_depth_exceeded"
	CodeIO                 = "io_error"
	CodeByteCeilingReached = "byte_ceiling_reached"
)

// Issue represents one problem encountered while compiling or generating a
// template. Offset is a byte offset into the template text, or -1 when not
// applicable (e.g. a runtime I/O failure).
type Issue struct {
	Path    string // name of the failing segment ("literal" for a Literal); empty for parse issues
	Code    string
	Message string
	Offset  int64
	Cause   error
}

// Issues is a collection of Issue values that implements error. Fatal parse
// errors and I/O failures carry exactly one Issue; recoverable configuration
// problems collected during a successful parse may carry many.
type Issues []Issue

func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		fmt.Fprintf(b, "%s", it.Code)
		if it.Path != "" {
			fmt.Fprintf(b, " at %s", it.Path)
		}
		if it.Offset >= 0 {
			fmt.Fprintf(b, " (offset %d)", it.Offset)
		}
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AppendIssue appends an issue to the destination, initializing the slice
// when needed.
func AppendIssue(dst Issues, code, message string, offset int64) Issues {
	return append(dst, Issue{Code: code, Message: message, Offset: offset})
}

// AsIssues extracts Issues from an error using errors.As.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

func fatalf(offset int64, code, format string, args ...any) error {
	return Issues{{Code: code, Message: fmt.Sprintf(format, args...), Offset: offset}}
}

// fatalIO wraps a sink write failure, identifying the segment that failed
// (spec §7 category 3: runtime I/O failures abort the current generate).
func fatalIO(path string, cause error) error {
	return Issues{{Path: path, Code: CodeIO, Message: cause.Error(), Offset: -1, Cause: cause}}
}
