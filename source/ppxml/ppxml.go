// Package ppxml parses OCLC PicaPlus-XML (www.oclc-pica.org/xmlns/ppxml-1.0).
package ppxml

import (
	"io"

	"github.com/gbv/pica/internal/xmlscan"
)

var names = xmlscan.Names{
	Record:   "record",
	Field:    "tag",
	TagAttr:  "id",
	OccAttr:  "occ",
	Subfield: "subf",
	CodeAttr: "id",
}

// NewReader wraps an io.Reader producing PPXML. The result implements
// pica.Source.
func NewReader(r io.Reader) *xmlscan.Scanner {
	return xmlscan.New(r, names)
}
