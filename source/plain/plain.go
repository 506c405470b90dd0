// Package plain parses PICA Plain: one field per line as "TTTT[/OO] $cvalue..."
// with "$$" escaping a literal dollar sign, records separated by blank lines.
package plain

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/gbv/pica"
)

// Reader implements pica.Source over PICA Plain input.
type Reader struct {
	s    *bufio.Scanner
	line int
	err  error
}

// NewReader wraps an io.Reader. Lines longer than bufio's default are
// supported up to 1 MiB.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &Reader{s: s}
}

// Next returns the next record, io.EOF at end of input, or a
// *pica.ParseError on malformed input.
func (r *Reader) Next() (pica.Record, error) {
	if r.err != nil {
		return pica.Record{}, r.err
	}
	var rec pica.Record
	for r.s.Scan() {
		r.line++
		line := strings.TrimRight(r.s.Text(), "\r")
		if line == "" {
			if len(rec.Fields) > 0 {
				return rec, nil
			}
			continue
		}
		f, err := r.parseField(line)
		if err != nil {
			r.err = err
			return pica.Record{}, err
		}
		rec.Fields = append(rec.Fields, f)
	}
	if err := r.s.Err(); err != nil {
		r.err = err
		return pica.Record{}, err
	}
	r.err = io.EOF
	if len(rec.Fields) > 0 {
		return rec, nil
	}
	return pica.Record{}, io.EOF
}

func (r *Reader) parseField(line string) (pica.Field, error) {
	head, rest, _ := strings.Cut(line, " ")
	tag, occ, ok := pica.ParseTag(head)
	if !ok {
		return pica.Field{}, &pica.ParseError{Line: r.line, Message: fmt.Sprintf("malformed tag %q", head)}
	}
	f := pica.Field{Tag: tag, Occurrence: occ}
	if rest == "" {
		return f, nil
	}
	if rest[0] != '$' {
		return pica.Field{}, &pica.ParseError{Line: r.line, Message: "subfields must start with $"}
	}
	var cur *pica.Subfield
	var value strings.Builder
	flush := func() {
		if cur != nil {
			cur.Value = value.String()
			f.Subfields = append(f.Subfields, *cur)
			value.Reset()
		}
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] != '$' || (i+1 < len(rest) && rest[i+1] == '$') {
			if cur == nil {
				return pica.Field{}, &pica.ParseError{Line: r.line, Message: "text before first subfield code"}
			}
			if rest[i] == '$' {
				i++
			}
			value.WriteByte(rest[i])
			continue
		}
		if i+1 >= len(rest) {
			return pica.Field{}, &pica.ParseError{Line: r.line, Message: "dangling subfield marker"}
		}
		flush()
		cur = &pica.Subfield{Code: string(rest[i+1])}
		i++
	}
	flush()
	return f, nil
}
