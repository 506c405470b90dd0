// Package xmlscan implements a streaming scanner shared by the PICA-XML and
// PPXML sources. The two dialects only differ in element and attribute
// naming, so the scanner is parameterized by a name set and matching is done
// on local names, ignoring namespace prefixes.
package xmlscan

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/gbv/pica"
)

// Names selects the dialect's element and attribute names (local parts).
type Names struct {
	Record   string
	Field    string
	TagAttr  string
	OccAttr  string
	Subfield string
	CodeAttr string
}

// Scanner pulls records out of an XML token stream.
type Scanner struct {
	dec   *xml.Decoder
	names Names
	err   error
}

// New builds a Scanner over r using the given dialect names.
func New(r io.Reader, names Names) *Scanner {
	return &Scanner{dec: xml.NewDecoder(r), names: names}
}

// Next returns the next record element, io.EOF when the document ends, or a
// *pica.ParseError on malformed content. XML well-formedness errors from the
// decoder are surfaced as parse errors too.
func (s *Scanner) Next() (pica.Record, error) {
	if s.err != nil {
		return pica.Record{}, s.err
	}
	for {
		tok, err := s.dec.Token()
		if err == io.EOF {
			s.err = io.EOF
			return pica.Record{}, io.EOF
		}
		if err != nil {
			s.err = &pica.ParseError{Message: err.Error()}
			return pica.Record{}, s.err
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != s.names.Record {
			continue
		}
		rec, err := s.record(start)
		if err != nil {
			s.err = err
			return pica.Record{}, err
		}
		return rec, nil
	}
}

func (s *Scanner) record(start xml.StartElement) (pica.Record, error) {
	var rec pica.Record
	for {
		tok, err := s.dec.Token()
		if err != nil {
			return pica.Record{}, &pica.ParseError{Message: "unterminated record element"}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != s.names.Field {
				if err := s.dec.Skip(); err != nil {
					return pica.Record{}, &pica.ParseError{Message: err.Error()}
				}
				continue
			}
			f, err := s.field(t)
			if err != nil {
				return pica.Record{}, err
			}
			rec.Fields = append(rec.Fields, f)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return rec, nil
			}
		}
	}
}

func (s *Scanner) field(start xml.StartElement) (pica.Field, error) {
	f := pica.Field{Occurrence: pica.NoOccurrence}
	for _, a := range start.Attr {
		switch a.Name.Local {
		case s.names.TagAttr:
			f.Tag = a.Value
		case s.names.OccAttr:
			if a.Value == "" {
				continue
			}
			n, err := strconv.Atoi(a.Value)
			if err != nil || n < 0 || n > 99 {
				return pica.Field{}, &pica.ParseError{Message: fmt.Sprintf("malformed occurrence %q", a.Value)}
			}
			f.Occurrence = n
		}
	}
	if f.Tag == "" {
		return pica.Field{}, &pica.ParseError{Message: "field element without tag attribute"}
	}
	for {
		tok, err := s.dec.Token()
		if err != nil {
			return pica.Field{}, &pica.ParseError{Message: "unterminated field element"}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local != s.names.Subfield {
				if err := s.dec.Skip(); err != nil {
					return pica.Field{}, &pica.ParseError{Message: err.Error()}
				}
				continue
			}
			sf, err := s.subfield(t)
			if err != nil {
				return pica.Field{}, err
			}
			f.Subfields = append(f.Subfields, sf)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return f, nil
			}
		}
	}
}

func (s *Scanner) subfield(start xml.StartElement) (pica.Subfield, error) {
	var sf pica.Subfield
	for _, a := range start.Attr {
		if a.Name.Local == s.names.CodeAttr {
			sf.Code = a.Value
		}
	}
	if len(sf.Code) != 1 {
		return pica.Subfield{}, &pica.ParseError{Message: fmt.Sprintf("malformed subfield code %q", sf.Code)}
	}
	for {
		tok, err := s.dec.Token()
		if err != nil {
			return pica.Subfield{}, &pica.ParseError{Message: "unterminated subfield element"}
		}
		switch t := tok.(type) {
		case xml.CharData:
			sf.Value += string(t)
		case xml.EndElement:
			if t.Name.Local == start.Name.Local {
				return sf, nil
			}
		case xml.StartElement:
			if err := s.dec.Skip(); err != nil {
				return pica.Subfield{}, &pica.ParseError{Message: err.Error()}
			}
		}
	}
}
