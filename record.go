package pica

import "strings"

// Reserved tags that carve a record into its convention-based sub-hierarchies.
// A field whose tag starts with '0' belongs to the bibliographic level, '1' to
// the holding level and '2' to the item (copy) level.
const (
	idTag      = "003@"
	holdingTag = "101@"
	itemTag    = "203@"
)

// NoOccurrence marks a field that carries no occurrence number.
const NoOccurrence = -1

// Subfield is a single code/value pair. The value may be empty but is never
// absent; a code is always exactly one character.
type Subfield struct {
	Code  string
	Value string
}

// Field is a tagged, optionally occurrence-numbered group of subfields.
// Occurrence is NoOccurrence when the field has none; otherwise it is in the
// range 0..99 and is rendered zero-padded to two digits on output.
type Field struct {
	Tag        string
	Occurrence int
	Subfields  []Subfield
}

// NewField builds a Field from alternating code/value pairs. It exists mainly
// for tests and ad-hoc construction; pairs must have even length.
func NewField(tag string, occurrence int, pairs ...string) Field {
	sf := make([]Subfield, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		sf = append(sf, Subfield{Code: pairs[i], Value: pairs[i+1]})
	}
	return Field{Tag: tag, Occurrence: occurrence, Subfields: sf}
}

// Level reports the hierarchy level of the field: 0 for bibliographic, 1 for
// holding, 2 for item.
func (f Field) Level() int {
	if f.Tag == "" {
		return 0
	}
	switch f.Tag[0] {
	case '1':
		return 1
	case '2':
		return 2
	default:
		return 0
	}
}

// First returns the value of the first subfield with the given code, or ""
// when the field has none.
func (f Field) First(code string) string {
	for _, sf := range f.Subfields {
		if sf.Code == code {
			return sf.Value
		}
	}
	return ""
}

// clone copies the field with its own subfield slice so callers can filter
// without mutating the original.
func (f Field) clone() Field {
	out := f
	out.Subfields = make([]Subfield, len(f.Subfields))
	copy(out.Subfields, f.Subfields)
	return out
}

// Record is one bibliographic unit: an ordered sequence of fields. Records
// flow through the pipeline by value and are never mutated in place; filtering
// produces a new record.
type Record struct {
	Fields []Field
}

// NewRecord builds a record from the given fields.
func NewRecord(fields ...Field) Record { return Record{Fields: fields} }

// ID returns the record identifier taken from the first 003@ $0 subfield, or
// "" when the record has none. It is used only for error-message prefixing.
func (r Record) ID() string {
	for _, f := range r.Fields {
		if f.Tag == idTag {
			return f.First("0")
		}
	}
	return ""
}

// Holdings splits the record's non-bibliographic fields into per-holding
// sub-records. A new holding starts at each 101@ field; level-1 and level-2
// fields seen before any 101@ form an implicit first holding.
func (r Record) Holdings() []Record {
	var out []Record
	for _, f := range r.Fields {
		if f.Level() == 0 {
			continue
		}
		if f.Tag == holdingTag || len(out) == 0 {
			out = append(out, Record{})
		}
		h := &out[len(out)-1]
		h.Fields = append(h.Fields, f)
	}
	return out
}

// Items splits the record's item-level fields into per-copy sub-records. A new
// item starts at each 203@ field; level-2 fields seen before any 203@ form an
// implicit first item.
func (r Record) Items() []Record {
	var out []Record
	for _, f := range r.Fields {
		if f.Level() != 2 {
			continue
		}
		if f.Tag == itemTag || len(out) == 0 {
			out = append(out, Record{})
		}
		it := &out[len(out)-1]
		it.Fields = append(it.Fields, f)
	}
	return out
}

// validTag reports whether tag has the canonical 4-character shape
// [0-2][0-9][0-9][A-Z@].
func validTag(tag string) bool {
	if len(tag) != 4 {
		return false
	}
	if tag[0] < '0' || tag[0] > '2' {
		return false
	}
	for i := 1; i <= 2; i++ {
		if tag[i] < '0' || tag[i] > '9' {
			return false
		}
	}
	c := tag[3]
	return (c >= 'A' && c <= 'Z') || c == '@'
}

// ParseTag splits a "TTTT" or "TTTT/OO" token into tag and occurrence as used
// by the textual serializations. The occurrence must be one or two digits;
// NoOccurrence is returned when the token has no "/" part.
func ParseTag(token string) (tag string, occurrence int, ok bool) {
	occurrence = NoOccurrence
	if i := strings.IndexByte(token, '/'); i >= 0 {
		tag = token[:i]
		occ := token[i+1:]
		if len(occ) < 1 || len(occ) > 2 {
			return "", 0, false
		}
		n := 0
		for j := 0; j < len(occ); j++ {
			if occ[j] < '0' || occ[j] > '9' {
				return "", 0, false
			}
			n = n*10 + int(occ[j]-'0')
		}
		occurrence = n
	} else {
		tag = token
	}
	if !validTag(tag) {
		return "", 0, false
	}
	return tag, occurrence, true
}
