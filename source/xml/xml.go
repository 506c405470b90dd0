// Package xml parses PICA-XML (info:srw/schema/5/picaXML-v1.0).
package xml

import (
	"io"

	"github.com/gbv/pica/internal/xmlscan"
)

var names = xmlscan.Names{
	Record:   "record",
	Field:    "datafield",
	TagAttr:  "tag",
	OccAttr:  "occurrence",
	Subfield: "subfield",
	CodeAttr: "code",
}

// NewReader wraps an io.Reader producing PICA-XML. The result implements
// pica.Source.
func NewReader(r io.Reader) *xmlscan.Scanner {
	return xmlscan.New(r, names)
}
