package pica_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gbv/pica"
	"github.com/gbv/pica/source/binary"
	jsonsrc "github.com/gbv/pica/source/json"
	"github.com/gbv/pica/source/plain"
	"github.com/gbv/pica/source/plus"
	"github.com/gbv/pica/source/ppxml"
	"github.com/gbv/pica/source/xml"
)

func sourceFor(format pica.Format, r io.Reader) pica.Source {
	switch format {
	case pica.Plain:
		return plain.NewReader(r)
	case pica.Plus:
		return plus.NewReader(r)
	case pica.Binary:
		return binary.NewReader(r)
	case pica.XML:
		return xml.NewReader(r)
	case pica.PPXML:
		return ppxml.NewReader(r)
	default:
		return jsonsrc.NewReader(r)
	}
}

func TestRoundTripAllFormats(t *testing.T) {
	recs := []pica.Record{
		pica.NewRecord(
			pica.NewField("003@", pica.NoOccurrence, "0", "12345X"),
			pica.NewField("021A", pica.NoOccurrence, "a", "Title with $ and <markup>", "h", ""),
			pica.NewField("045B", 2, "a", "class", "a", "class2"),
		),
		pica.NewRecord(
			pica.NewField("003@", pica.NoOccurrence, "0", "67890"),
			pica.NewField("203@", 1, "0", "copy"),
		),
	}
	for _, format := range []pica.Format{pica.Plain, pica.Plus, pica.Binary, pica.XML, pica.PPXML, pica.JSON} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			w, err := pica.NewWriter(&buf, pica.WriterOpt{Format: format})
			if err != nil {
				t.Fatalf("NewWriter: %v", err)
			}
			for _, rec := range recs {
				if err := w.WriteRecord(rec); err != nil {
					t.Fatalf("WriteRecord: %v", err)
				}
			}
			if err := w.End(); err != nil {
				t.Fatalf("End: %v", err)
			}
			src := sourceFor(format, &buf)
			var got []pica.Record
			for {
				rec, err := src.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("Next: %v (serialized: %q)", err, buf.String())
				}
				got = append(got, rec)
			}
			if diff := cmp.Diff(recs, got); diff != "" {
				t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
