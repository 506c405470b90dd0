package plain_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/gbv/pica"
	"github.com/gbv/pica/source/plain"
)

func TestNextParsesRecords(t *testing.T) {
	in := "003@ $0abc\n021A $aTitle One$hrest\n\n003@/02 $0xyz\n"
	r := plain.NewReader(strings.NewReader(in))

	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(rec.Fields) != 2 || rec.ID() != "abc" {
		t.Fatalf("first record = %+v", rec)
	}
	if sf := rec.Fields[1].Subfields; len(sf) != 2 || sf[0].Value != "Title One" || sf[1].Code != "h" {
		t.Fatalf("subfields = %+v", sf)
	}

	rec, err = r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if len(rec.Fields) != 1 || rec.Fields[0].Occurrence != 2 {
		t.Fatalf("second record = %+v", rec)
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("Next at end = %v, want io.EOF", err)
	}
}

func TestNextUnescapesDollar(t *testing.T) {
	r := plain.NewReader(strings.NewReader("021A $a5 $$ fine\n"))
	rec, err := r.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if got := rec.Fields[0].Subfields[0].Value; got != "5 $ fine" {
		t.Fatalf("value = %q, want %q", got, "5 $ fine")
	}
}

func TestNextRejectsMalformedInput(t *testing.T) {
	for _, in := range []string{
		"XXXX $0abc\n",
		"003@ no marker\n",
		"003@ $\n",
	} {
		r := plain.NewReader(strings.NewReader(in))
		_, err := r.Next()
		var pe *pica.ParseError
		if !errors.As(err, &pe) {
			t.Fatalf("Next(%q) = %v, want ParseError", in, err)
		}
		if pe.Line != 1 {
			t.Fatalf("Next(%q) reported line %d, want 1", in, pe.Line)
		}
	}
}
