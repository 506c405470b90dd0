package pica

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	CodeUnknownField          = "unknown_field"
	CodeFieldNotRepeatable    = "field_not_repeatable"
	CodeMissingField          = "missing_field"
	CodeUnknownSubfield       = "unknown_subfield"
	CodeSubfieldNotRepeatable = "subfield_not_repeatable"
	CodeMissingSubfield       = "missing_subfield"
)

// Issue represents a single validation finding for one record. Validation
// issues are data, not failures: the pipeline reports them and continues.
type Issue struct {
	Tag     string // Offending field tag (for example: 021A).
	Code    string // One of the codes listed above.
	Message string
}

// Issues is a collection of validation findings that implements error.
type Issues []Issue

// Error summarizes the first few issues.
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
		b.WriteString(iss[i].Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// AsIssues extracts Issues from an error using errors.As internally.
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

// ErrWriterClosed is returned when WriteRecord or End is called on a writer
// whose End has already run.
var ErrWriterClosed = errors.New("pica: writer already closed")

// InvalidPathError reports a malformed path expression. It is detected at
// compile time, before any record is processed.
type InvalidPathError struct {
	Pattern string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("pica: invalid path %q", e.Pattern)
}

// UnsupportedFormatError reports an unknown serialization format name.
type UnsupportedFormatError struct {
	Name string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("pica: unsupported format %q", e.Name)
}

// SinkError wraps an I/O failure while writing. It is fatal for the whole
// stream: output order and completeness are both contractual, so there is no
// partial-write recovery.
type SinkError struct {
	Err error
}

func (e *SinkError) Error() string { return "pica: write failed: " + e.Err.Error() }
func (e *SinkError) Unwrap() error { return e.Err }

// ParseError reports malformed input from one of the source parsers. Line is
// 1-based when known, 0 otherwise. Parse errors abort the stream loop.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("pica: parse error at line %d: %s", e.Line, e.Message)
	}
	return "pica: parse error: " + e.Message
}
