package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/gbv/pica"
	"github.com/gbv/pica/source/binary"
	jsonsrc "github.com/gbv/pica/source/json"
	"github.com/gbv/pica/source/plain"
	"github.com/gbv/pica/source/plus"
	"github.com/gbv/pica/source/ppxml"
	"github.com/gbv/pica/source/xml"
)

func main() {
	var (
		from     string
		to       string
		path     string
		schemaF  string
		build    bool
		count    bool
		ignore   bool
		useColor bool
		limit    int
	)
	flag.StringVar(&from, "f", "", "input format (plain, plus, binary, xml, ppxml, json); default: by file extension")
	flag.StringVar(&to, "t", "", "output format; default: plain unless -c or -b is given")
	flag.StringVar(&path, "p", "", "path filter, |-separated patterns such as 003@|021A$a")
	flag.StringVar(&schemaF, "s", "", "Avram schema file (JSON or YAML) to validate against")
	flag.BoolVar(&build, "b", false, "build a schema from the input and print it as JSON")
	flag.BoolVar(&count, "c", false, "count records, holdings, items and fields")
	flag.BoolVar(&ignore, "i", false, "ignore unknown fields when validating")
	flag.BoolVar(&useColor, "C", false, "colorize output")
	flag.IntVar(&limit, "n", 0, "stop after this many records (0 = no limit)")
	flag.Usage = usage
	flag.Parse()

	in, name := openInput(flag.Arg(0))
	defer in.Close()

	src, err := newSource(in, name, from)
	if err != nil {
		fatalf("%v", err)
	}

	p := pica.Pipeline{
		Count:  count,
		Limit:  limit,
		Diag:   os.Stderr,
		Report: os.Stdout,
	}
	if path != "" {
		f, err := pica.NewFilter(path)
		if err != nil {
			fatalf("%v", err)
		}
		p.Filter = f
	}
	if schemaF != "" {
		sf, err := os.Open(schemaF)
		if err != nil {
			fatalf("opening schema: %v", err)
		}
		schema, err := pica.LoadSchema(sf)
		sf.Close()
		if err != nil {
			fatalf("%v", err)
		}
		p.Validator = schema
		p.CheckOpt = pica.CheckOpt{IgnoreUnknown: ignore}
	}
	if build {
		p.Builder = pica.NewBuilder()
	}
	if to != "" || (!count && !build && schemaF == "") {
		if to == "" {
			to = "plain"
		}
		format, err := pica.ParseFormat(to)
		if err != nil {
			fatalf("%v", err)
		}
		opt := pica.WriterOpt{Format: format}
		if useColor {
			opt.Color = &pica.ColorScheme{
				Tag:        "blue",
				Occurrence: "cyan",
				Code:       "red",
				Syntax:     "yellow",
			}
		}
		w, err := pica.NewWriter(os.Stdout, opt)
		if err != nil {
			fatalf("%v", err)
		}
		p.Writer = w
	}

	if _, err := p.Run(src); err != nil {
		fatalf("%v", err)
	}
	if p.Builder != nil {
		b, err := json.MarshalIndent(p.Builder.Schema(), "", "  ")
		if err != nil {
			fatalf("encoding schema: %v", err)
		}
		os.Stdout.Write(append(b, '\n'))
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "picadata - process PICA+ records\n\nUsage:\n  picadata [options] [file]\n\nReads records from file (or stdin), optionally filters them by path\nexpression, serializes, validates against an Avram schema, infers a schema\nor counts. Validation findings go to stderr and do not affect the exit\ncode; setup and I/O errors do.\n\nOptions:")
	flag.PrintDefaults()
}

func openInput(arg string) (io.ReadCloser, string) {
	if arg == "" || arg == "-" {
		return os.Stdin, ""
	}
	f, err := os.Open(arg)
	if err != nil {
		fatalf("%v", err)
	}
	return f, arg
}

// newSource resolves the input format, from the -f flag when given,
// otherwise from the file extension, defaulting to plain.
func newSource(r io.Reader, name, from string) (pica.Source, error) {
	if from == "" {
		from = formatByExtension(name)
	}
	format, err := pica.ParseFormat(from)
	if err != nil {
		return nil, err
	}
	switch format {
	case pica.Plain:
		return plain.NewReader(r), nil
	case pica.Plus:
		return plus.NewReader(r), nil
	case pica.Binary:
		return binary.NewReader(r), nil
	case pica.XML:
		return xml.NewReader(r), nil
	case pica.PPXML:
		return ppxml.NewReader(r), nil
	case pica.JSON:
		return jsonsrc.NewReader(r), nil
	default:
		return nil, &pica.UnsupportedFormatError{Name: from}
	}
}

func formatByExtension(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pica":
		return "plus"
	case ".dat", ".bin":
		return "binary"
	case ".xml":
		return "xml"
	case ".ppxml":
		return "ppxml"
	case ".json", ".ndjson":
		return "json"
	default:
		return "plain"
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
