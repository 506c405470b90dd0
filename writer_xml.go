package pica

import (
	"bytes"
	"encoding/xml"
	"io"
)

// xmlNames parameterizes the shared XML strategy over the two XML dialects.
// PICA-XML and PPXML only differ in element/attribute naming and namespace.
type xmlNames struct {
	header   string // root element open tag including namespace declaration
	root     string
	record   string
	field    string
	tagAttr  string
	occAttr  string
	subfield string
	codeAttr string
}

var picaXMLNames = xmlNames{
	header:   `<collection xmlns="info:srw/schema/5/picaXML-v1.0">`,
	root:     "collection",
	record:   "record",
	field:    "datafield",
	tagAttr:  "tag",
	occAttr:  "occurrence",
	subfield: "subfield",
	codeAttr: "code",
}

var ppxmlNames = xmlNames{
	header:   `<ppxml:collection xmlns:ppxml="http://www.oclc-pica.org/xmlns/ppxml-1.0">`,
	root:     "ppxml:collection",
	record:   "ppxml:record",
	field:    "ppxml:tag",
	tagAttr:  "id",
	occAttr:  "occ",
	subfield: "ppxml:subf",
	codeAttr: "id",
}

// xmlWriter streams records as an XML collection. The declaration and root
// element are emitted lazily before the first record; End closes the root
// (emitting an empty collection when no record was written).
type xmlWriter struct {
	w       io.Writer
	colors  ColorScheme
	names   xmlNames
	started bool
	closed  bool
	buf     bytes.Buffer
}

func newXMLWriter(w io.Writer, colors ColorScheme, names xmlNames) *xmlWriter {
	return &xmlWriter{w: w, colors: colors, names: names}
}

func (x *xmlWriter) begin() {
	x.buf.WriteString(paint(x.colors.Syntax, xml.Header))
	x.buf.WriteString(paint(x.colors.Syntax, x.names.header))
	x.buf.WriteByte('\n')
	x.started = true
}

func (x *xmlWriter) attr(color, value string) string {
	var esc bytes.Buffer
	xml.EscapeText(&esc, []byte(value))
	return `"` + paint(color, esc.String()) + `"`
}

func (x *xmlWriter) WriteRecord(rec Record) error {
	if x.closed {
		return ErrWriterClosed
	}
	x.buf.Reset()
	if !x.started {
		x.begin()
	}
	n := x.names
	x.buf.WriteString(paint(x.colors.Syntax, "  <"+n.record+">") + "\n")
	for _, f := range rec.Fields {
		x.buf.WriteString(paint(x.colors.Syntax, "    <"+n.field+" "+n.tagAttr+"="))
		x.buf.WriteString(x.attr(x.colors.Tag, f.Tag))
		if f.Occurrence != NoOccurrence {
			x.buf.WriteString(paint(x.colors.Syntax, " "+n.occAttr+"="))
			x.buf.WriteString(x.attr(x.colors.Occurrence, formatOccurrence(f.Occurrence)))
		}
		x.buf.WriteString(paint(x.colors.Syntax, ">") + "\n")
		for _, sf := range f.Subfields {
			x.buf.WriteString(paint(x.colors.Syntax, "      <"+n.subfield+" "+n.codeAttr+"="))
			x.buf.WriteString(x.attr(x.colors.Code, sf.Code))
			x.buf.WriteString(paint(x.colors.Syntax, ">"))
			var esc bytes.Buffer
			xml.EscapeText(&esc, []byte(sf.Value))
			x.buf.WriteString(paint(x.colors.Value, esc.String()))
			x.buf.WriteString(paint(x.colors.Syntax, "</"+n.subfield+">") + "\n")
		}
		x.buf.WriteString(paint(x.colors.Syntax, "    </"+n.field+">") + "\n")
	}
	x.buf.WriteString(paint(x.colors.Syntax, "  </"+n.record+">") + "\n")
	if _, err := x.w.Write(x.buf.Bytes()); err != nil {
		return &SinkError{Err: err}
	}
	return nil
}

// End closes the collection root. A stream with no records still yields a
// well-formed empty collection.
func (x *xmlWriter) End() error {
	if x.closed {
		return ErrWriterClosed
	}
	x.buf.Reset()
	if !x.started {
		x.begin()
	}
	x.buf.WriteString(paint(x.colors.Syntax, "</"+x.names.root+">") + "\n")
	if _, err := x.w.Write(x.buf.Bytes()); err != nil {
		return &SinkError{Err: err}
	}
	x.closed = true
	return nil
}
