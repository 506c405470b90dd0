package pica_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gbv/pica"
)

func TestCompilePath(t *testing.T) {
	for _, ok := range []string{"003@", "0...", "2..@", "021A$a", "045B/00", "045B/*", "201A/01$ab0"} {
		if _, err := pica.CompilePath(ok); err != nil {
			t.Fatalf("CompilePath(%q) failed: %v", ok, err)
		}
	}
	for _, bad := range []string{"", "03@", "30.@", "003@$", "003@/1x", "003@/123", "003@x", "0@3@", "021A$a-"} {
		_, err := pica.CompilePath(bad)
		if err == nil {
			t.Fatalf("CompilePath(%q) unexpectedly succeeded", bad)
		}
		var ipe *pica.InvalidPathError
		if !errors.As(err, &ipe) || ipe.Pattern != bad {
			t.Fatalf("CompilePath(%q) error = %v, want InvalidPathError naming the pattern", bad, err)
		}
	}
}

func TestPathMatchField(t *testing.T) {
	cases := []struct {
		path  string
		field pica.Field
		want  bool
	}{
		{"003@", pica.Field{Tag: "003@", Occurrence: pica.NoOccurrence}, true},
		{"003@", pica.Field{Tag: "003@", Occurrence: 2}, true},
		{"0..@", pica.Field{Tag: "003@", Occurrence: pica.NoOccurrence}, true},
		{"0...", pica.Field{Tag: "021A", Occurrence: pica.NoOccurrence}, true},
		{"0...", pica.Field{Tag: "121A", Occurrence: pica.NoOccurrence}, false},
		{"045B/02", pica.Field{Tag: "045B", Occurrence: 2}, true},
		{"045B/02", pica.Field{Tag: "045B", Occurrence: 3}, false},
		{"045B/*", pica.Field{Tag: "045B", Occurrence: 7}, true},
		{"045B/00", pica.Field{Tag: "045B", Occurrence: pica.NoOccurrence}, true},
		{"045B/00", pica.Field{Tag: "045B", Occurrence: 0}, true},
	}
	for _, tc := range cases {
		p, err := pica.CompilePath(tc.path)
		if err != nil {
			t.Fatalf("CompilePath(%q): %v", tc.path, err)
		}
		if got := p.MatchField(tc.field); got != tc.want {
			t.Fatalf("%q.MatchField(%s/%d) = %v, want %v", tc.path, tc.field.Tag, tc.field.Occurrence, got, tc.want)
		}
	}
}

func TestFilterApplyKeepsOrderAndSubset(t *testing.T) {
	rec := pica.NewRecord(
		pica.NewField("003@", pica.NoOccurrence, "0", "abc"),
		pica.NewField("021A", pica.NoOccurrence, "a", "Title One", "h", "remainder"),
		pica.NewField("045B", 1, "a", "class"),
		pica.NewField("021A", pica.NoOccurrence, "a", "Title Two"),
	)
	f, err := pica.NewFilter("021A$a|045B")
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	got := f.Apply(rec)
	want := pica.NewRecord(
		pica.NewField("021A", pica.NoOccurrence, "a", "Title One"),
		pica.NewField("045B", 1, "a", "class"),
		pica.NewField("021A", pica.NoOccurrence, "a", "Title Two"),
	)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Apply mismatch (-want +got):\n%s", diff)
	}
	// the original record must be untouched
	if len(rec.Fields[1].Subfields) != 2 {
		t.Fatalf("Apply mutated the input record")
	}
}

func TestFilterCodeUnionAcrossPaths(t *testing.T) {
	rec := pica.NewRecord(
		pica.NewField("021A", pica.NoOccurrence, "a", "A", "h", "H", "x", "X"),
	)
	f, err := pica.NewFilter("021A$a|021A$h")
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	got := f.Apply(rec)
	want := pica.NewRecord(pica.NewField("021A", pica.NoOccurrence, "a", "A", "h", "H"))
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Apply mismatch (-want +got):\n%s", diff)
	}
}

func TestEmptyFilterIsNoOp(t *testing.T) {
	rec := sampleRecord()
	f, err := pica.NewFilter("")
	if err != nil {
		t.Fatalf("NewFilter(\"\"): %v", err)
	}
	if f.Len() != 0 {
		t.Fatalf("empty spec compiled to %d paths", f.Len())
	}
	if diff := cmp.Diff(rec, f.Apply(rec)); diff != "" {
		t.Fatalf("empty filter changed the record (-want +got):\n%s", diff)
	}
}

func TestFilterNeverInventsFields(t *testing.T) {
	rec := sampleRecord()
	f, err := pica.NewFilter("2...")
	if err != nil {
		t.Fatalf("NewFilter: %v", err)
	}
	got := f.Apply(rec)
	for _, fd := range got.Fields {
		if fd.Tag[0] != '2' {
			t.Fatalf("filtered record contains non-matching field %s", fd.Tag)
		}
	}
	if len(got.Fields) != 3 {
		t.Fatalf("kept %d fields, want 3", len(got.Fields))
	}
}
