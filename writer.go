package pica

import (
	"bytes"
	"fmt"
	"io"
	"strings"
)

// Writer streams records to an output sink in one serialization. WriteRecord
// may be called repeatedly on the same open sink; End finalizes trailing
// structure (the XML root element, for instance) and must be called exactly
// once. Both fail with ErrWriterClosed after End has run, and wrap sink I/O
// failures in SinkError.
type Writer interface {
	WriteRecord(rec Record) error
	End() error
}

// WriterOpt configures NewWriter.
type WriterOpt struct {
	Format Format
	Color  *ColorScheme // nil disables coloring
}

// NewWriter builds a Writer for the given format over an already-open sink.
// The writer never opens or closes the sink itself.
func NewWriter(w io.Writer, opt WriterOpt) (Writer, error) {
	var colors ColorScheme
	if opt.Color != nil {
		colors = *opt.Color
	}
	switch opt.Format {
	case Plain:
		return &delimWriter{
			w:            w,
			colors:       colors,
			subfieldMark: "$",
			fieldEnd:     "\n",
			recordEnd:    "\n",
			escapeMark:   true,
		}, nil
	case Plus:
		return &delimWriter{
			w:            w,
			colors:       colors,
			subfieldMark: "\x1f",
			fieldEnd:     "\x1e",
			recordEnd:    "\n",
		}, nil
	case Binary:
		return &delimWriter{
			w:            w,
			colors:       colors,
			subfieldMark: "\x1f",
			fieldEnd:     "\x1e",
			recordEnd:    "\x1d",
		}, nil
	case XML:
		return newXMLWriter(w, colors, picaXMLNames), nil
	case PPXML:
		return newXMLWriter(w, colors, ppxmlNames), nil
	case JSON:
		return &jsonWriter{w: w}, nil
	default:
		return nil, &UnsupportedFormatError{Name: opt.Format.String()}
	}
}

// formatOccurrence renders an occurrence in its two-digit canonical form
// regardless of its in-memory width.
func formatOccurrence(occ int) string {
	return fmt.Sprintf("%02d", occ)
}

// delimWriter is the shared strategy for the delimiter-based textual formats
// (plain, plus, binary). The format only varies the subfield marker, the
// field terminator, the record terminator and whether the marker is escaped
// inside values. Each record is rendered into a scratch buffer and written
// with a single sink call so a failed write never leaves a torn record.
type delimWriter struct {
	w            io.Writer
	colors       ColorScheme
	subfieldMark string
	fieldEnd     string
	recordEnd    string
	escapeMark   bool // escape "$" as "$$" in values (plain format)
	closed       bool
	buf          bytes.Buffer
}

func (d *delimWriter) WriteRecord(rec Record) error {
	if d.closed {
		return ErrWriterClosed
	}
	d.buf.Reset()
	for _, f := range rec.Fields {
		d.buf.WriteString(paint(d.colors.Tag, f.Tag))
		if f.Occurrence != NoOccurrence {
			d.buf.WriteString(paint(d.colors.Syntax, "/"))
			d.buf.WriteString(paint(d.colors.Occurrence, formatOccurrence(f.Occurrence)))
		}
		d.buf.WriteByte(' ')
		for _, sf := range f.Subfields {
			d.buf.WriteString(paint(d.colors.Syntax, d.subfieldMark))
			d.buf.WriteString(paint(d.colors.Code, sf.Code))
			v := sf.Value
			if d.escapeMark {
				v = strings.ReplaceAll(v, "$", "$$")
			}
			d.buf.WriteString(paint(d.colors.Value, v))
		}
		d.buf.WriteString(d.fieldEnd)
	}
	d.buf.WriteString(d.recordEnd)
	if _, err := d.w.Write(d.buf.Bytes()); err != nil {
		return &SinkError{Err: err}
	}
	return nil
}

// End is a no-op for the delimiter formats beyond state tracking: they carry
// no trailing structure.
func (d *delimWriter) End() error {
	if d.closed {
		return ErrWriterClosed
	}
	d.closed = true
	return nil
}
