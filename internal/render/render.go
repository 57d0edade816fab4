// Package render writes exported partition records in output formats.
// Renderers read only the plain record data, never the partition types.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docpart/internal/partition"
)

// ErrUnknownFormat is returned for format names with no renderer.
var ErrUnknownFormat = errors.New("unknown output format")

// Format names an output format.
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
	FormatText Format = "text"
	FormatDOCX Format = "docx"
)

// Formats lists every format Render accepts.
var Formats = []Format{FormatJSON, FormatHTML, FormatText, FormatDOCX}

// ParseFormat maps a case-insensitive name to a Format. An empty name
// selects JSON.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatJSON, nil
	case FormatJSON, FormatHTML, FormatText, FormatDOCX:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
}

// ContentType returns the MIME type of rendered output.
func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	}
	return "application/json"
}

// Extension returns the file extension for rendered output.
func (f Format) Extension() string {
	if f == FormatText {
		return ".txt"
	}
	return "." + string(f)
}

// Options tunes rendering.
type Options struct {
	Title string // document title, used by JSON and HTML output
	Width int    // wrap width for text output; <= 0 means DefaultWidth
}

// DefaultWidth is the text wrap width when none is given.
const DefaultWidth = 80

// Render writes records to w in the given format.
func Render(w io.Writer, format Format, records []partition.Record, opts Options) error {
	switch format {
	case FormatJSON:
		return JSON(w, opts.Title, records)
	case FormatHTML:
		return HTML(w, opts.Title, records)
	case FormatText:
		return Text(w, records, opts.Width)
	case FormatDOCX:
		return DOCX(w, records)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// JSON writes {"title": ..., "partitions": [...]}, indented.
func JSON(w io.Writer, title string, records []partition.Record) error {
	if records == nil {
		records = []partition.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"title":      title,
		"partitions": records,
	})
}

func recordType(rec partition.Record) partition.Type {
	s, _ := rec["type"].(string)
	return partition.Type(s)
}

func str(rec partition.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}

// children returns the nested records under key. Records decoded from JSON
// carry []any rather than []partition.Record.
func children(rec partition.Record, key string) []partition.Record {
	switch v := rec[key].(type) {
	case []partition.Record:
		return v
	case []any:
		out := make([]partition.Record, 0, len(v))
		for _, e := range v {
			switch m := e.(type) {
			case partition.Record:
				out = append(out, m)
			case map[string]any:
				out = append(out, partition.Record(m))
			}
		}
		return out
	}
	return nil
}

func unknownType(rec partition.Record) error {
	return fmt.Errorf("unknown partition type %q", recordType(rec))
}

// plain flattens inline records into unstyled text.
func plain(rec partition.Record) string {
	switch recordType(rec) {
	case partition.TypeLink:
		if link := str(rec, "link"); link != "" {
			return fmt.Sprintf("%s (%s)", str(rec, "value"), link)
		}
	case partition.TypeImage:
		return fmt.Sprintf("[image: %s] (%s)", str(rec, "altText"), str(rec, "link"))
	}
	if v, ok := rec["value"].(string); ok {
		return v
	}
	var sb strings.Builder
	for _, c := range children(rec, "partitions") {
		sb.WriteString(plain(c))
	}
	return sb.String()
}
