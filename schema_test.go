package pica_test

import (
	"strings"
	"testing"

	"github.com/gbv/pica"
)

const schemaJSON = `{
  "title": "test profile",
  "fields": {
    "003@": {
      "required": true,
      "subfields": {"0": {"required": true}}
    },
    "021A": {
      "subfields": {"a": {"required": true}, "h": {}}
    },
    "045B": {"repeatable": true}
  }
}`

const schemaYAML = `
title: test profile
fields:
  "003@":
    required: true
    subfields:
      "0": {required: true}
  "021A":
    subfields:
      a: {required: true}
      h: {}
  "045B":
    repeatable: true
`

func loadSchema(t *testing.T, doc string) *pica.Schema {
	t.Helper()
	s, err := pica.LoadSchema(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("LoadSchema: %v", err)
	}
	return s
}

func TestLoadSchemaJSONAndYAML(t *testing.T) {
	for _, doc := range []string{schemaJSON, schemaYAML} {
		s := loadSchema(t, doc)
		if s.Title != "test profile" {
			t.Fatalf("Title = %q", s.Title)
		}
		if !s.Fields["003@"].Required {
			t.Fatalf("003@ should be required")
		}
		if !s.Fields["003@"].Subfields["0"].Required {
			t.Fatalf("003@ $0 should be required")
		}
	}
}

func TestCheckValidRecord(t *testing.T) {
	s := loadSchema(t, schemaJSON)
	rec := pica.NewRecord(
		pica.NewField("003@", pica.NoOccurrence, "0", "abc"),
		pica.NewField("021A", pica.NoOccurrence, "a", "Title"),
		pica.NewField("045B", pica.NoOccurrence, "a", "x"),
		pica.NewField("045B", pica.NoOccurrence, "a", "y"),
	)
	if iss := s.Check(rec, pica.CheckOpt{}); len(iss) != 0 {
		t.Fatalf("Check = %v, want no issues", iss)
	}
}

func TestCheckFindings(t *testing.T) {
	s := loadSchema(t, schemaJSON)
	rec := pica.NewRecord(
		pica.NewField("012X", pica.NoOccurrence, "a", "?"),
		pica.NewField("021A", pica.NoOccurrence, "h", "no a", "h", "again"),
		pica.NewField("021A", pica.NoOccurrence, "a", "second"),
	)
	iss := s.Check(rec, pica.CheckOpt{})
	wantCodes := []string{
		pica.CodeUnknownField,          // 012X
		pica.CodeSubfieldNotRepeatable, // 021A $h twice
		pica.CodeMissingSubfield,       // first 021A has no $a
		pica.CodeFieldNotRepeatable,    // second 021A
		pica.CodeMissingField,          // 003@
	}
	if len(iss) != len(wantCodes) {
		t.Fatalf("Check = %d issues %v, want %d", len(iss), iss, len(wantCodes))
	}
	for i, code := range wantCodes {
		if iss[i].Code != code {
			t.Fatalf("issue %d = %s (%s), want %s", i, iss[i].Code, iss[i].Message, code)
		}
	}
}

func TestCheckIgnoreUnknown(t *testing.T) {
	s := loadSchema(t, schemaJSON)
	rec := pica.NewRecord(
		pica.NewField("003@", pica.NoOccurrence, "0", "abc"),
		pica.NewField("012X", pica.NoOccurrence, "a", "?"),
	)
	if iss := s.Check(rec, pica.CheckOpt{IgnoreUnknown: true}); len(iss) != 0 {
		t.Fatalf("Check with IgnoreUnknown = %v, want no issues", iss)
	}
	if iss := s.Check(rec, pica.CheckOpt{}); len(iss) != 1 || iss[0].Code != pica.CodeUnknownField {
		t.Fatalf("Check without IgnoreUnknown = %v, want one unknown_field", iss)
	}
}

func TestIssuesError(t *testing.T) {
	iss := pica.Issues{
		{Code: pica.CodeUnknownField, Message: "unknown field 012X"},
		{Code: pica.CodeMissingField, Message: "missing field 003@"},
	}
	if got := iss.Error(); !strings.Contains(got, "unknown field 012X") {
		t.Fatalf("Error() = %q", got)
	}
	if got, ok := pica.AsIssues(error(iss)); !ok || len(got) != 2 {
		t.Fatalf("AsIssues = %v, %v", got, ok)
	}
}
