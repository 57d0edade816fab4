package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docpart/internal/doctree"
	"github.com/dgallion1/docpart/internal/inline"
)

// TextParser handles plain text files. Blank lines separate paragraphs and
// each paragraph is tokenized for inline markup.
type TextParser struct {
	Inline *inline.Tokenizer
}

func (p *TextParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	doc := &doctree.Document{
		Title: strings.TrimSuffix(filename, ".txt"),
	}
	for _, para := range splitParagraphs(string(data)) {
		block, err := paragraph(p.Inline, para)
		if err != nil {
			return nil, err
		}
		doc.Append(block)
	}

	return doc, nil
}
