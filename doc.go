package pica

// Package pica provides:
//
// - An immutable record model for PICA+ bibliographic data (Record/Field/Subfield)
// - Path expressions for filtering records down to matching fields and subfields
// - Streaming writers for the plain, plus, binary, XML, PPXML and JSON serializations
// - Avram-style schema validation and schema inference from sample records
// - A single-pass pipeline that fans each record out to writer, validator,
//   schema builder and counter with record-at-a-time memory
//
// Design policy:
// - Keep only public APIs in the root package; put shared scanner helpers under internal/.
// - Place format parsers under source/<format>, and the CLI under cmd/picadata.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	src := plain.NewReader(os.Stdin)
//	w, err := pica.NewWriter(os.Stdout, pica.WriterOpt{Format: pica.Plain})
//	p := pica.Pipeline{Writer: w, Count: true, Report: os.Stdout}
//	stats, err := p.Run(src)
//
