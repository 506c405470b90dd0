package pica

// Format enumerates the supported record serializations.
type Format int

const (
	Plain Format = iota // One field per line, subfields marked with $.
	Plus                // Normalized PICA+ with US/RS control characters.
	Binary              // As Plus, records terminated by GS.
	XML                 // PICA-XML collection/record/datafield/subfield.
	PPXML               // OCLC PicaPlus-XML variant.
	JSON                // PICA JSON, one array of field arrays per line.
)

var formatNames = map[Format]string{
	Plain:  "plain",
	Plus:   "plus",
	Binary: "binary",
	XML:    "xml",
	PPXML:  "ppxml",
	JSON:   "json",
}

func (f Format) String() string {
	if n, ok := formatNames[f]; ok {
		return n
	}
	return "unknown"
}

// ParseFormat resolves a format name as used by CLI flags and file
// extensions. Unknown names yield an UnsupportedFormatError.
func ParseFormat(name string) (Format, error) {
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return 0, &UnsupportedFormatError{Name: name}
}
