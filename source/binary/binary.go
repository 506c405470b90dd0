// Package binary parses the binary PICA serialization: as normalized PICA+
// but with records terminated by the GS control character (0x1D).
package binary

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gbv/pica"
)

// Reader implements pica.Source over binary PICA input.
type Reader struct {
	r   *bufio.Reader
	n   int // records consumed, for error reporting
	err error
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
		raw, err := r.r.ReadString('\x1d')
		if err != nil && err != io.EOF {
			r.err = err
			return pica.Record{}, err
		}
		atEOF := err == io.EOF
		raw = strings.Trim(raw, "\x1d\r\n")
		if raw == "" {
			if atEOF {
				r.err = io.EOF
				return pica.Record{}, io.EOF
			}
			continue
		}
		r.n++
		rec, perr := r.parseRecord(raw)
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

func (r *Reader) parseRecord(raw string) (pica.Record, error) {
	var rec pica.Record
	for _, chunk := range strings.Split(raw, "\x1e") {
		chunk = strings.Trim(chunk, "\r\n")
		if chunk == "" {
			continue
		}
		parts := strings.Split(chunk, "\x1f")
		head := strings.TrimRight(parts[0], " ")
		tag, occ, ok := pica.ParseTag(head)
		if !ok {
			return pica.Record{}, &pica.ParseError{Message: fmt.Sprintf("record %d: malformed tag %q", r.n, head)}
		}
		f := pica.Field{Tag: tag, Occurrence: occ}
		for _, sub := range parts[1:] {
			if sub == "" {
				return pica.Record{}, &pica.ParseError{Message: fmt.Sprintf("record %d: empty subfield", r.n)}
			}
			f.Subfields = append(f.Subfields, pica.Subfield{Code: string(sub[0]), Value: sub[1:]})
		}
		rec.Fields = append(rec.Fields, f)
	}
	if len(rec.Fields) == 0 {
		return pica.Record{}, &pica.ParseError{Message: fmt.Sprintf("record %d: empty record", r.n)}
	}
	return rec, nil
}
