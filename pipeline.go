package pica

import (
	"fmt"
	"io"
)

// Source produces records lazily, one per call. Next returns io.EOF when the
// stream is exhausted; any other error (such as a ParseError) is fatal to the
// stream. The source/<format> subpackages implement Source for each wire
// encoding, and any external parser can feed the pipeline by implementing it.
type Source interface {
	Next() (Record, error)
}

// Validator is the checking side of the schema port: it reports validation
// findings for one record. *Schema implements it.
type Validator interface {
	Check(rec Record, opt CheckOpt) Issues
}

// Stats aggregates one pipeline run. Holdings, Items and Fields are the
// summed sizes of the per-record views; Invalid counts records with at least
// one validation finding, not findings themselves.
type Stats struct {
	Records  int
	Invalid  int
	Holdings int
	Items    int
	Fields   int
}

// Pipeline orchestrates one pass over a record stream: filter, write,
// validate, build, count. All consumers observe the same per-record view
// (filtered when a filter is set) and the pass needs O(1) memory beyond the
// builder's accumulated schema and the counters.
type Pipeline struct {
	Filter    *Filter   // optional; nil or empty means no filtering
	Writer    Writer    // optional serializer; write failures abort the run
	Validator Validator // optional schema check
	CheckOpt  CheckOpt
	Builder   *Builder // optional schema inference
	Count     bool     // accumulate structural counts and print the report
	Limit     int      // stop after this many records; 0 means unlimited

	Diag   io.Writer // validation findings, one line per finding; nil discards
	Report io.Writer // count report at end of run; nil discards
}

// Run pulls records from src until exhaustion, fans each one out to the
// configured consumers, finalizes the writer and prints the report. The
// returned Stats are valid even when the run aborts early.
func (p *Pipeline) Run(src Source) (Stats, error) {
	var st Stats
	processed := 0
	for {
		if p.Limit > 0 && processed >= p.Limit {
			break
		}
		rec, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return st, err
		}
		processed++
		if p.Filter != nil {
			rec = p.Filter.Apply(rec)
		}
		if p.Writer != nil {
			if err := p.Writer.WriteRecord(rec); err != nil {
				return st, err
			}
		}
		if p.Validator != nil {
			if iss := p.Validator.Check(rec, p.CheckOpt); len(iss) > 0 {
				st.Invalid++
				p.reportIssues(rec, iss)
			}
		}
		if p.Builder != nil {
			p.Builder.Add(rec)
		}
		if p.Count {
			st.Records++
			st.Holdings += len(rec.Holdings())
			st.Items += len(rec.Items())
			st.Fields += len(rec.Fields)
		}
	}
	if p.Writer != nil {
		if err := p.Writer.End(); err != nil {
			return st, err
		}
	}
	p.report(st)
	return st, nil
}

// reportIssues prints one line per finding, prefixed with the record
// identifier when the record has one.
func (p *Pipeline) reportIssues(rec Record, iss Issues) {
	if p.Diag == nil {
		return
	}
	id := rec.ID()
	for _, is := range iss {
		if id != "" {
			fmt.Fprintf(p.Diag, "%s: %s\n", id, is.Message)
		} else {
			fmt.Fprintln(p.Diag, is.Message)
		}
	}
}

// report prints the aggregate counts in fixed order. The invalid line is
// included only when a validator ran; the structural counts only when
// counting was requested.
func (p *Pipeline) report(st Stats) {
	if p.Report == nil || !p.Count {
		return
	}
	fmt.Fprintf(p.Report, "%d records\n", st.Records)
	if p.Validator != nil {
		fmt.Fprintf(p.Report, "%d invalid\n", st.Invalid)
	}
	fmt.Fprintf(p.Report, "%d holdings\n", st.Holdings)
	fmt.Fprintf(p.Report, "%d items\n", st.Items)
	fmt.Fprintf(p.Report, "%d fields\n", st.Fields)
}
