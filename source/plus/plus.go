// Package plus parses normalized PICA+: fields terminated by the RS control
// character (0x1E), subfields introduced by US (0x1F), records terminated by
// a newline.
package plus

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gbv/pica"
)

// Reader implements pica.Source over normalized PICA+ input.
type Reader struct {
	r    *bufio.Reader
	line int
	err  error
}

// NewReader wraps an io.Reader.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// Next returns the next record, io.EOF at end of input, or a
// *pica.ParseError on malformed input.
func (r *Reader) Next() (pica.Record, error) {
	if r.err != nil {
		return pica.Record{}, r.err
	}
	for {
		raw, err := r.r.ReadString('\n')
		if err != nil && err != io.EOF {
			r.err = err
			return pica.Record{}, err
		}
		atEOF := err == io.EOF
		if raw != "" {
			r.line++
		}
		raw = strings.TrimRight(raw, "\r\n")
		if raw == "" {
			if atEOF {
				r.err = io.EOF
				return pica.Record{}, io.EOF
			}
			continue
		}
		rec, perr := parseRecord(raw, r.line)
		if perr != nil {
			r.err = perr
			return pica.Record{}, perr
		}
		if atEOF {
			r.err = io.EOF
		}
		return rec, nil
	}
}

// parseRecord splits one normalized record into fields on RS and each field
// into subfields on US.
func parseRecord(raw string, line int) (pica.Record, error) {
	var rec pica.Record
	for _, chunk := range strings.Split(raw, "\x1e") {
		if chunk == "" {
			continue
		}
		parts := strings.Split(chunk, "\x1f")
		head := strings.TrimRight(parts[0], " ")
		tag, occ, ok := pica.ParseTag(head)
		if !ok {
			return pica.Record{}, &pica.ParseError{Line: line, Message: fmt.Sprintf("malformed tag %q", head)}
		}
		f := pica.Field{Tag: tag, Occurrence: occ}
		for _, sub := range parts[1:] {
			if sub == "" {
				return pica.Record{}, &pica.ParseError{Line: line, Message: "empty subfield"}
			}
			f.Subfields = append(f.Subfields, pica.Subfield{Code: string(sub[0]), Value: sub[1:]})
		}
		rec.Fields = append(rec.Fields, f)
	}
	if len(rec.Fields) == 0 {
		return pica.Record{}, &pica.ParseError{Line: line, Message: "empty record"}
	}
	return rec, nil
}
