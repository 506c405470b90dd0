package pica

import (
	"fmt"
	"io"
	"sort"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// SubfieldSchema describes one allowed subfield of a field.
type SubfieldSchema struct {
	Code       string `json:"code,omitempty" yaml:"code,omitempty"`
	Label      string `json:"label,omitempty" yaml:"label,omitempty"`
	Repeatable bool   `json:"repeatable" yaml:"repeatable"`
	Required   bool   `json:"required" yaml:"required"`
}

// FieldSchema describes one allowed field. A nil Subfields map leaves the
// field's subfields unconstrained.
type FieldSchema struct {
	Tag        string                    `json:"tag,omitempty" yaml:"tag,omitempty"`
	Label      string                    `json:"label,omitempty" yaml:"label,omitempty"`
	Repeatable bool                      `json:"repeatable" yaml:"repeatable"`
	Required   bool                      `json:"required" yaml:"required"`
	Subfields  map[string]SubfieldSchema `json:"subfields,omitempty" yaml:"subfields,omitempty"`
}

// Schema is an Avram-style description of allowed fields and subfields, used
// to validate records or inferred from sample records by a Builder.
type Schema struct {
	Title  string                 `json:"title,omitempty" yaml:"title,omitempty"`
	Fields map[string]FieldSchema `json:"fields" yaml:"fields"`
}

// LoadSchema reads a schema in JSON or YAML, sniffed from the first
// non-whitespace byte.
func LoadSchema(r io.Reader) (*Schema, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var s Schema
	if isJSONStart(b) {
		err = json.Unmarshal(b, &s)
	} else {
		err = yaml.Unmarshal(b, &s)
	}
	if err != nil {
		return nil, fmt.Errorf("pica: reading schema: %w", err)
	}
	if s.Fields == nil {
		s.Fields = map[string]FieldSchema{}
	}
	return &s, nil
}

func isJSONStart(b []byte) bool {
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		case '{':
			return true
		default:
			return false
		}
	}
	return false
}

// CheckOpt configures record validation.
type CheckOpt struct {
	IgnoreUnknown bool // Suppress unknown-field issues.
}

// Check validates one record against the schema and returns its findings in
// record order, with missing-field findings appended in tag order. An empty
// result means the record is valid.
func (s *Schema) Check(rec Record, opt CheckOpt) Issues {
	var iss Issues
	seen := make(map[string]int)
	for _, f := range rec.Fields {
		fs, ok := s.Fields[f.Tag]
		if !ok {
			if !opt.IgnoreUnknown {
				iss = append(iss, Issue{
					Tag:     f.Tag,
					Code:    CodeUnknownField,
					Message: fmt.Sprintf("unknown field %s", f.Tag),
				})
			}
			continue
		}
		seen[f.Tag]++
		if seen[f.Tag] == 2 && !fs.Repeatable {
			iss = append(iss, Issue{
				Tag:     f.Tag,
				Code:    CodeFieldNotRepeatable,
				Message: fmt.Sprintf("field %s is not repeatable", f.Tag),
			})
		}
		iss = append(iss, checkSubfields(f, fs)...)
	}
	tags := make([]string, 0, len(s.Fields))
	for tag := range s.Fields {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		if s.Fields[tag].Required && seen[tag] == 0 {
			iss = append(iss, Issue{
				Tag:     tag,
				Code:    CodeMissingField,
				Message: fmt.Sprintf("missing field %s", tag),
			})
		}
	}
	return iss
}

func checkSubfields(f Field, fs FieldSchema) Issues {
	if fs.Subfields == nil {
		return nil
	}
	var iss Issues
	counts := make(map[string]int)
	for _, sf := range f.Subfields {
		ss, ok := fs.Subfields[sf.Code]
		if !ok {
			iss = append(iss, Issue{
				Tag:     f.Tag,
				Code:    CodeUnknownSubfield,
				Message: fmt.Sprintf("unknown subfield %s$%s", f.Tag, sf.Code),
			})
			continue
		}
		counts[sf.Code]++
		if counts[sf.Code] == 2 && !ss.Repeatable {
			iss = append(iss, Issue{
				Tag:     f.Tag,
				Code:    CodeSubfieldNotRepeatable,
				Message: fmt.Sprintf("subfield %s$%s is not repeatable", f.Tag, sf.Code),
			})
		}
	}
	codes := make([]string, 0, len(fs.Subfields))
	for code := range fs.Subfields {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if fs.Subfields[code].Required && counts[code] == 0 {
			iss = append(iss, Issue{
				Tag:     f.Tag,
				Code:    CodeMissingSubfield,
				Message: fmt.Sprintf("missing subfield %s$%s", f.Tag, code),
			})
		}
	}
	return iss
}
