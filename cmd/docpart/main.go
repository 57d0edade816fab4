package main

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dgallion1/docpart/internal/doctree"
	"github.com/dgallion1/docpart/internal/inline"
	"github.com/dgallion1/docpart/internal/parser"
	"github.com/dgallion1/docpart/internal/partition"
	"github.com/dgallion1/docpart/internal/render"
	"github.com/dustin/go-humanize"
	"github.com/k0kubun/pp"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/version"
)

const (
	defaultWidth = 80
	formatDump   = "dump"
	stdinName    = "stdin.md"
)

func init() {
	version.SetDefaultModule("github.com/dgallion1/docpart")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	format   string
	output   string
	width    int
	inline   bool
	maxDepth int
	name     string
	validate bool
	verbose  bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		opts        options
		showVersion bool
	)
	flags := pflag.NewFlagSet("docpart", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVarP(&opts.format, "format", "f", "json", "Output format: json|html|text|docx|dump")
	flags.StringVarP(&opts.output, "output", "o", "", "Output file instead of stdout")
	flags.IntVarP(&opts.width, "width", "w", 0, "Text wrap width (0 uses terminal width if available)")
	flags.BoolVar(&opts.inline, "inline", false, "Treat the input as a single inline span")
	flags.IntVar(&opts.maxDepth, "max-depth", inline.DefaultMaxDepth, "Maximum inline emphasis nesting")
	flags.StringVar(&opts.name, "name", stdinName, "File name used to pick a parser for stdin")
	flags.BoolVar(&opts.validate, "validate", true, "Check exported records against the partition schema")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log parsing details to stderr")
	flags.BoolVar(&showVersion, "version", false, "Print version and exit")
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: docpart [flags] [file]\n")
		fmt.Fprintln(stderr, "\nIf no file is given, input is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}
	if showVersion {
		fmt.Fprintln(stdout, version.Module(), version.Current())
		return 0
	}
	if flags.NArg() > 1 {
		fmt.Fprintln(stderr, "expected at most one input file")
		return 2
	}

	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	var format render.Format
	if opts.format != formatDump {
		f, err := render.ParseFormat(opts.format)
		if err != nil {
			fmt.Fprintf(stderr, "invalid --format: %v\n", err)
			return 2
		}
		format = f
	}

	data, name, err := readInput(flags.Args(), stdin, opts.name)
	if err != nil {
		fmt.Fprintf(stderr, "open input: %v\n", err)
		return 1
	}
	log.Debug("read input", "name", name, "size", humanize.Bytes(uint64(len(data))))

	tk := inline.New(inline.WithMaxDepth(opts.maxDepth), inline.WithLogger(log))
	doc, err := buildDocument(data, name, opts.inline, tk)
	if err != nil {
		fmt.Fprintf(stderr, "parse: %v\n", err)
		return 1
	}
	records := doc.Records()
	log.Debug("parsed document", "title", doc.Title, "partitions", len(records))

	if opts.validate {
		if err := partition.ValidateRecords(records); err != nil {
			fmt.Fprintf(stderr, "validate: %v\n", err)
			return 1
		}
	}

	writer, closeOut, err := resolveOutput(opts.output, stdout)
	if err != nil {
		fmt.Fprintf(stderr, "open output: %v\n", err)
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	if opts.format == formatDump {
		pp.ColoringEnabled = isTerminal(writer)
		if _, err := pp.Fprintln(writer, doc.Export()); err != nil {
			fmt.Fprintf(stderr, "dump: %v\n", err)
			return 1
		}
		return 0
	}

	if format == render.FormatDOCX && isTerminal(writer) {
		fmt.Fprintln(stderr, "refusing to write DOCX to terminal; use -o/--output")
		return 2
	}
	renderOpts := render.Options{Title: doc.Title, Width: resolveWidth(opts.width)}
	if err := render.Render(writer, format, records, renderOpts); err != nil {
		fmt.Fprintf(stderr, "render: %v\n", err)
		return 1
	}
	return 0
}

// buildDocument parses data with the parser for name, or as one inline span
// when asInline is set.
func buildDocument(data []byte, name string, asInline bool, tk *inline.Tokenizer) (*doctree.Document, error) {
	if asInline {
		parts, err := tk.TokenizeOrText(strings.TrimRight(string(data), "\r\n"))
		if err != nil {
			return nil, err
		}
		doc := &doctree.Document{}
		doc.Append(parts...)
		return doc, nil
	}
	p, err := parser.ForFile(name, parser.Config{Inline: tk, FallbackPdftotext: true})
	if err != nil {
		return nil, err
	}
	return p.Parse(bytes.NewReader(data), filepath.Base(name))
}

func readInput(args []string, stdin io.Reader, stdinAs string) ([]byte, string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		return data, stdinAs, err
	}
	data, err := os.ReadFile(args[0])
	return data, args[0], err
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveWidth(width int) int {
	if width > 0 {
		return width
	}
	return terminalWidth(defaultWidth)
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
