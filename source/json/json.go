// Package json parses PICA JSON: a stream of records, each an array of field
// arrays [tag, occurrence-or-null, code, value, ...]. Records wrapped in an
// object with a "record" key are accepted as well, so callers never need to
// pre-normalize the two shapes.
package json

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"

	"github.com/gbv/pica"
)

// Reader implements pica.Source over PICA JSON input.
type Reader struct {
	dec *json.Decoder
	n   int // records consumed, for error reporting
	err error
}

// NewReader wraps an io.Reader. Input may be newline-delimited or simply
// concatenated JSON values.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: json.NewDecoder(r)}
}

// Next returns the next record, io.EOF at end of input, or a
// *pica.ParseError on malformed input.
func (r *Reader) Next() (pica.Record, error) {
	if r.err != nil {
		return pica.Record{}, r.err
	}
	var raw any
	if err := r.dec.Decode(&raw); err != nil {
		if err == io.EOF {
			r.err = io.EOF
			return pica.Record{}, io.EOF
		}
		r.err = &pica.ParseError{Message: err.Error()}
		return pica.Record{}, r.err
	}
	r.n++
	rec, err := r.convert(raw)
	if err != nil {
		r.err = err
		return pica.Record{}, err
	}
	return rec, nil
}

// convert adapts the two accepted wire shapes onto the canonical Record.
func (r *Reader) convert(raw any) (pica.Record, error) {
	if obj, ok := raw.(map[string]any); ok {
		inner, ok := obj["record"]
		if !ok {
			return pica.Record{}, r.fail("object record without \"record\" key")
		}
		raw = inner
	}
	rows, ok := raw.([]any)
	if !ok {
		return pica.Record{}, r.fail("record is not an array")
	}
	var rec pica.Record
	for _, row := range rows {
		cells, ok := row.([]any)
		if !ok || len(cells) < 2 {
			return pica.Record{}, r.fail("field is not an array of tag, occurrence and subfields")
		}
		tag, ok := cells[0].(string)
		if !ok {
			return pica.Record{}, r.fail("field tag is not a string")
		}
		occ, err := r.occurrence(cells[1])
		if err != nil {
			return pica.Record{}, err
		}
		f := pica.Field{Tag: tag, Occurrence: occ}
		pairs := cells[2:]
		if len(pairs)%2 != 0 {
			return pica.Record{}, r.fail("odd subfield list in field " + tag)
		}
		for i := 0; i+1 < len(pairs); i += 2 {
			code, ok1 := pairs[i].(string)
			value, ok2 := pairs[i+1].(string)
			if !ok1 || !ok2 || len(code) != 1 {
				return pica.Record{}, r.fail("malformed subfield pair in field " + tag)
			}
			f.Subfields = append(f.Subfields, pica.Subfield{Code: code, Value: value})
		}
		rec.Fields = append(rec.Fields, f)
	}
	return rec, nil
}

// occurrence accepts null, a zero-padded string or a number.
func (r *Reader) occurrence(v any) (int, error) {
	switch occ := v.(type) {
	case nil:
		return pica.NoOccurrence, nil
	case string:
		if occ == "" {
			return pica.NoOccurrence, nil
		}
		n := 0
		for i := 0; i < len(occ); i++ {
			if occ[i] < '0' || occ[i] > '9' {
				return 0, r.fail(fmt.Sprintf("malformed occurrence %q", occ))
			}
			n = n*10 + int(occ[i]-'0')
		}
		if len(occ) > 2 {
			return 0, r.fail(fmt.Sprintf("malformed occurrence %q", occ))
		}
		return n, nil
	case float64:
		n := int(occ)
		if float64(n) != occ || n < 0 || n > 99 {
			return 0, r.fail(fmt.Sprintf("malformed occurrence %v", occ))
		}
		return n, nil
	default:
		return 0, r.fail(fmt.Sprintf("malformed occurrence %v", v))
	}
}

func (r *Reader) fail(msg string) *pica.ParseError {
	return &pica.ParseError{Message: fmt.Sprintf("record %d: %s", r.n, msg)}
}
