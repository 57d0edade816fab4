package parser

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/dgallion1/docpart/internal/doctree"
	"github.com/dgallion1/docpart/internal/inline"
	"github.com/dgallion1/docpart/internal/partition"
)

// Parser converts raw document bytes into a Document.
type Parser interface {
	Parse(r io.Reader, filename string) (*doctree.Document, error)
}

// Config carries settings shared by all parsers.
type Config struct {
	Inline            *inline.Tokenizer // nil uses the default tokenizer
	FallbackPdftotext bool
}

// SupportedExtensions lists file extensions this service can handle.
var SupportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".html":     true,
	".htm":      true,
	".pdf":      true,
	".docx":     true,
}

// ForFile returns the appropriate parser for a filename.
func ForFile(filename string, cfg Config) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &TextParser{Inline: cfg.Inline}, nil
	case ".md", ".markdown":
		return &MarkdownParser{Inline: cfg.Inline}, nil
	case ".html", ".htm":
		return &HTMLParser{Inline: cfg.Inline}, nil
	case ".pdf":
		return &PDFParser{Inline: cfg.Inline, FallbackPdftotext: cfg.FallbackPdftotext}, nil
	case ".docx":
		return &DOCXParser{Inline: cfg.Inline}, nil
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// IsSupportedExtension checks if a file extension is supported.
func IsSupportedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	return SupportedExtensions[ext]
}

// spans tokenizes one inline span, falling back to a single text node when
// the span has no markup.
func spans(tk *inline.Tokenizer, s string) ([]partition.Partition, error) {
	var (
		parts []partition.Partition
		err   error
	)
	if tk == nil {
		parts, err = inline.TokenizeOrText(s)
	} else {
		parts, err = tk.TokenizeOrText(s)
	}
	if err != nil {
		return nil, fmt.Errorf("tokenize inline: %w", err)
	}
	return parts, nil
}

func paragraph(tk *inline.Tokenizer, s string) (partition.Partition, error) {
	parts, err := spans(tk, s)
	if err != nil {
		return nil, err
	}
	return partition.NewParagraph(parts), nil
}

func quoteblock(tk *inline.Tokenizer, s string) (partition.Partition, error) {
	parts, err := spans(tk, s)
	if err != nil {
		return nil, err
	}
	return partition.NewQuoteblock(parts), nil
}

// splitParagraphs splits text on blank lines, keeping single newlines inside
// a paragraph.
func splitParagraphs(text string) []string {
	var (
		paragraphs []string
		current    strings.Builder
	)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			if current.Len() > 0 {
				paragraphs = append(paragraphs, current.String())
				current.Reset()
			}
			continue
		}
		if current.Len() > 0 {
			current.WriteString("\n")
		}
		current.WriteString(line)
	}
	if current.Len() > 0 {
		paragraphs = append(paragraphs, current.String())
	}
	return paragraphs
}
