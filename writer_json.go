package pica

import (
	"io"

	json "github.com/goccy/go-json"
)

// jsonWriter emits PICA JSON: one line per record holding an array of field
// arrays [tag, occurrence-or-null, code, value, ...]. The encoding is
// structural, so the color scheme does not apply.
type jsonWriter struct {
	w      io.Writer
	closed bool
}

func (j *jsonWriter) WriteRecord(rec Record) error {
	if j.closed {
		return ErrWriterClosed
	}
	fields := make([][]any, 0, len(rec.Fields))
	for _, f := range rec.Fields {
		row := make([]any, 0, 2+2*len(f.Subfields))
		row = append(row, f.Tag)
		if f.Occurrence != NoOccurrence {
			row = append(row, formatOccurrence(f.Occurrence))
		} else {
			row = append(row, nil)
		}
		for _, sf := range f.Subfields {
			row = append(row, sf.Code, sf.Value)
		}
		fields = append(fields, row)
	}
	b, err := json.Marshal(fields)
	if err != nil {
		return &SinkError{Err: err}
	}
	b = append(b, '\n')
	if _, err := j.w.Write(b); err != nil {
		return &SinkError{Err: err}
	}
	return nil
}

func (j *jsonWriter) End() error {
	if j.closed {
		return ErrWriterClosed
	}
	j.closed = true
	return nil
}
