package pica

import "strings"

// Path is a compiled path expression selecting fields (and optionally
// subfields) of a record. The grammar is
//
//	TTTT[/OO][$codes]
//
// where each tag position is a literal or the "." wildcard ([0-2.] [0-9.]
// [0-9.] [A-Z@.]), OO is a two-digit occurrence or "*" for any, and codes is
// a run of single-character subfield codes to retain. A path without an
// occurrence part matches any occurrence; a path without codes keeps all
// subfields of a matching field.
type Path struct {
	raw   string
	tag   [4]byte // '.' means wildcard at that position
	occ   int     // NoOccurrence means any; otherwise exact 0..99
	codes map[string]bool
}

// CompilePath compiles a single path pattern.
func CompilePath(pattern string) (*Path, error) {
	p := &Path{raw: pattern, occ: NoOccurrence}
	s := pattern
	if len(s) < 4 {
		return nil, &InvalidPathError{Pattern: pattern}
	}
	for i := 0; i < 4; i++ {
		c := s[i]
		if c == '.' {
			p.tag[i] = '.'
			continue
		}
		var ok bool
		switch i {
		case 0:
			ok = c >= '0' && c <= '2'
		case 1, 2:
			ok = c >= '0' && c <= '9'
		case 3:
			ok = (c >= 'A' && c <= 'Z') || c == '@'
		}
		if !ok {
			return nil, &InvalidPathError{Pattern: pattern}
		}
		p.tag[i] = c
	}
	s = s[4:]
	if strings.HasPrefix(s, "/") {
		occ := s[1:]
		if i := strings.IndexByte(occ, '$'); i >= 0 {
			occ, s = occ[:i], occ[i:]
		} else {
			s = ""
		}
		switch {
		case occ == "*":
			// any occurrence, same as no occurrence part
		case len(occ) >= 1 && len(occ) <= 2 && isDigits(occ):
			n := 0
			for i := 0; i < len(occ); i++ {
				n = n*10 + int(occ[i]-'0')
			}
			p.occ = n
		default:
			return nil, &InvalidPathError{Pattern: pattern}
		}
	}
	if strings.HasPrefix(s, "$") {
		codes := s[1:]
		if codes == "" {
			return nil, &InvalidPathError{Pattern: pattern}
		}
		p.codes = make(map[string]bool, len(codes))
		for _, c := range codes {
			if !isCodeRune(c) {
				return nil, &InvalidPathError{Pattern: pattern}
			}
			p.codes[string(c)] = true
		}
		s = ""
	}
	if s != "" {
		return nil, &InvalidPathError{Pattern: pattern}
	}
	return p, nil
}

func (p *Path) String() string { return p.raw }

// MatchTag reports whether the path's tag pattern matches the given tag.
func (p *Path) MatchTag(tag string) bool {
	if len(tag) != 4 {
		return false
	}
	for i := 0; i < 4; i++ {
		if p.tag[i] != '.' && p.tag[i] != tag[i] {
			return false
		}
	}
	return true
}

// MatchField reports whether the path matches the field's tag and occurrence.
// An exact occurrence of 00 also matches fields without occurrence, following
// the PICA convention that occurrence zero and no occurrence coincide.
func (p *Path) MatchField(f Field) bool {
	if !p.MatchTag(f.Tag) {
		return false
	}
	if p.occ == NoOccurrence {
		return true
	}
	if f.Occurrence == p.occ {
		return true
	}
	return p.occ == 0 && f.Occurrence == NoOccurrence
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isCodeRune(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// Filter is a set of compiled paths combined with logical OR.
type Filter struct {
	paths []*Path
}

// NewFilter compiles a "|"-separated list of path patterns. An empty or
// all-whitespace spec yields a filter with no paths, whose Apply is a
// documented no-op; any malformed pattern fails compilation with an
// InvalidPathError naming that pattern.
func NewFilter(spec string) (*Filter, error) {
	f := &Filter{}
	for _, part := range strings.Split(spec, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := CompilePath(part)
		if err != nil {
			return nil, err
		}
		f.paths = append(f.paths, p)
	}
	return f, nil
}

// Len reports the number of compiled paths.
func (f *Filter) Len() int { return len(f.paths) }

// Apply returns a new record holding only the fields matching at least one
// path, with subfields restricted to the union of the matching paths' code
// sets. Field order is preserved and the input record is never mutated. A
// filter with no paths returns the record unchanged.
func (f *Filter) Apply(rec Record) Record {
	if len(f.paths) == 0 {
		return rec
	}
	out := Record{}
	for _, fd := range rec.Fields {
		var keepAll bool
		var codes map[string]bool
		matched := false
		for _, p := range f.paths {
			if !p.MatchField(fd) {
				continue
			}
			matched = true
			if p.codes == nil {
				keepAll = true
				break
			}
			if codes == nil {
				codes = make(map[string]bool, len(p.codes))
			}
			for c := range p.codes {
				codes[c] = true
			}
		}
		if !matched {
			continue
		}
		kept := fd.clone()
		if !keepAll {
			sf := kept.Subfields[:0]
			for _, s := range kept.Subfields {
				if codes[s.Code] {
					sf = append(sf, s)
				}
			}
			kept.Subfields = sf
		}
		out.Fields = append(out.Fields, kept)
	}
	return out
}
