package pica

// Builder infers an Avram-style schema from sample records: a field is
// required when every record contains it, repeatable when any record repeats
// it; subfields likewise relative to their field's instances. Add never
// fails and accepts any record shape. Builder is single-owner mutable state;
// run one per pipeline and merge results explicitly if sharding input.
type Builder struct {
	records int
	fields  map[string]*fieldStat
}

type fieldStat struct {
	records   int // number of records containing the tag
	instances int // total field instances across all records
	repeated  bool
	subfields map[string]*subfieldStat
}

type subfieldStat struct {
	instances int // number of field instances containing the code
	repeated  bool
}

// NewBuilder returns an empty schema builder.
func NewBuilder() *Builder {
	return &Builder{fields: make(map[string]*fieldStat)}
}

// Add folds one record into the accumulated statistics. Only scalar counts
// are retained; the record itself is not.
func (b *Builder) Add(rec Record) {
	b.records++
	inRecord := make(map[string]bool)
	for _, f := range rec.Fields {
		st, ok := b.fields[f.Tag]
		if !ok {
			st = &fieldStat{subfields: make(map[string]*subfieldStat)}
			b.fields[f.Tag] = st
		}
		if inRecord[f.Tag] {
			st.repeated = true
		} else {
			inRecord[f.Tag] = true
			st.records++
		}
		st.instances++
		inField := make(map[string]bool)
		for _, sf := range f.Subfields {
			ss, ok := st.subfields[sf.Code]
			if !ok {
				ss = &subfieldStat{}
				st.subfields[sf.Code] = ss
			}
			if inField[sf.Code] {
				ss.repeated = true
			} else {
				inField[sf.Code] = true
				ss.instances++
			}
		}
	}
}

// Records reports how many records have been folded in.
func (b *Builder) Records() int { return b.records }

// Schema finalizes the accumulated statistics into a schema. It may be
// called repeatedly; each call derives a fresh schema from the counts so far.
func (b *Builder) Schema() *Schema {
	s := &Schema{Fields: make(map[string]FieldSchema, len(b.fields))}
	for tag, st := range b.fields {
		fs := FieldSchema{
			Tag:        tag,
			Repeatable: st.repeated,
			Required:   st.records == b.records && b.records > 0,
			Subfields:  make(map[string]SubfieldSchema, len(st.subfields)),
		}
		for code, ss := range st.subfields {
			fs.Subfields[code] = SubfieldSchema{
				Code:       code,
				Repeatable: ss.repeated,
				Required:   ss.instances == st.instances,
			}
		}
		s.Fields[tag] = fs
	}
	return s
}
