package pica_test

import (
	"testing"

	"github.com/gbv/pica"
)

func TestBuilderInference(t *testing.T) {
	b := pica.NewBuilder()
	b.Add(pica.NewRecord(
		pica.NewField("003@", pica.NoOccurrence, "0", "1"),
		pica.NewField("021A", pica.NoOccurrence, "a", "T1", "h", "rest"),
		pica.NewField("045B", pica.NoOccurrence, "a", "x"),
		pica.NewField("045B", pica.NoOccurrence, "a", "y"),
	))
	b.Add(pica.NewRecord(
		pica.NewField("003@", pica.NoOccurrence, "0", "2"),
		pica.NewField("021A", pica.NoOccurrence, "a", "T2"),
	))
	if b.Records() != 2 {
		t.Fatalf("Records() = %d, want 2", b.Records())
	}
	s := b.Schema()

	id, ok := s.Fields["003@"]
	if !ok || !id.Required || id.Repeatable {
		t.Fatalf("003@ = %+v, want required and not repeatable", id)
	}
	if sf := id.Subfields["0"]; !sf.Required || sf.Repeatable {
		t.Fatalf("003@ $0 = %+v, want required and not repeatable", sf)
	}

	title := s.Fields["021A"]
	if !title.Required || title.Repeatable {
		t.Fatalf("021A = %+v, want required and not repeatable", title)
	}
	if sf := title.Subfields["a"]; !sf.Required {
		t.Fatalf("021A $a = %+v, want required", sf)
	}
	if sf := title.Subfields["h"]; sf.Required {
		t.Fatalf("021A $h = %+v, want optional (absent in one instance)", sf)
	}

	class := s.Fields["045B"]
	if class.Required || !class.Repeatable {
		t.Fatalf("045B = %+v, want optional and repeatable", class)
	}
}

func TestBuilderSubfieldRepeats(t *testing.T) {
	b := pica.NewBuilder()
	b.Add(pica.NewRecord(pica.NewField("021A", pica.NoOccurrence, "a", "x", "a", "y")))
	s := b.Schema()
	if sf := s.Fields["021A"].Subfields["a"]; !sf.Repeatable {
		t.Fatalf("021A $a = %+v, want repeatable", sf)
	}
}

func TestBuilderValidatesItsOwnSamples(t *testing.T) {
	recs := []pica.Record{
		pica.NewRecord(
			pica.NewField("003@", pica.NoOccurrence, "0", "1"),
			pica.NewField("021A", pica.NoOccurrence, "a", "T1"),
		),
		pica.NewRecord(pica.NewField("003@", pica.NoOccurrence, "0", "2")),
	}
	b := pica.NewBuilder()
	for _, rec := range recs {
		b.Add(rec)
	}
	s := b.Schema()
	for i, rec := range recs {
		if iss := s.Check(rec, pica.CheckOpt{}); len(iss) != 0 {
			t.Fatalf("record %d invalid against inferred schema: %v", i, iss)
		}
	}
}
