package parser

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"github.com/dgallion1/docpart/internal/doctree"
	"github.com/dgallion1/docpart/internal/inline"
	"github.com/dgallion1/docpart/internal/partition"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// MarkdownParser handles Markdown files using goldmark. Goldmark supplies
// the block structure; inline spans are tokenized with the document's own
// inline grammar.
type MarkdownParser struct {
	Inline *inline.Tokenizer
}

type markdownMeta struct {
	Title string `yaml:"title" toml:"title" json:"title"`
}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	var meta markdownMeta
	src, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return nil, fmt.Errorf("parse front matter: %w", err)
	}

	md := goldmark.New()
	root := md.Parser().Parse(gmtext.NewReader(src))

	doc := &doctree.Document{
		Title: strings.TrimSuffix(strings.TrimSuffix(filename, ".md"), ".markdown"),
	}
	if t := strings.TrimSpace(meta.Title); t != "" {
		doc.Title = t
	}

	b := &markdownBuilder{src: src, tk: p.Inline}
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		block, err := b.block(n)
		if err != nil {
			return nil, err
		}
		if block != nil {
			doc.Append(block)
		}
	}
	return doc, nil
}

type markdownBuilder struct {
	src []byte
	tk  *inline.Tokenizer
}

// block converts one top-level goldmark node. A nil partition means the node
// carries nothing worth keeping.
func (b *markdownBuilder) block(n ast.Node) (partition.Partition, error) {
	switch node := n.(type) {
	case *ast.Heading:
		return partition.NewHeader(node.Level, inline.Unescape(blockText(node, b.src)))

	case *ast.Paragraph, *ast.TextBlock:
		if img := loneImage(node, b.src); img != nil {
			return partition.NewImage(plainText(img, b.src), string(img.Destination)), nil
		}
		return b.paragraph(blockText(node, b.src))

	case *ast.List:
		return b.list(node)

	case *ast.Blockquote:
		return quoteblock(b.tk, blockText(node, b.src))

	case *ast.ThematicBreak:
		return partition.NewPageBreak(), nil

	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		raw := strings.TrimRight(lineText(node, b.src), "\n")
		if raw == "" {
			return nil, nil
		}
		return partition.NewParagraph([]partition.Partition{partition.NewText(raw)}), nil
	}

	if t := blockText(n, b.src); t != "" {
		return b.paragraph(t)
	}
	return nil, nil
}

func (b *markdownBuilder) paragraph(s string) (partition.Partition, error) {
	if s == "" {
		return nil, nil
	}
	return paragraph(b.tk, s)
}

// list flattens each item's text into one paragraph; nested lists follow
// their parent item as items of their own.
func (b *markdownBuilder) list(node *ast.List) (partition.Partition, error) {
	var items []partition.Partition
	for li := node.FirstChild(); li != nil; li = li.NextSibling() {
		var (
			lines  []string
			nested []partition.Partition
		)
		for c := li.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				l, err := b.list(sub)
				if err != nil {
					return nil, err
				}
				nested = append(nested, l)
				continue
			}
			if t := blockText(c, b.src); t != "" {
				lines = append(lines, t)
			}
		}
		if len(lines) > 0 {
			para, err := paragraph(b.tk, strings.Join(lines, "\n"))
			if err != nil {
				return nil, err
			}
			items = append(items, para)
		}
		items = append(items, nested...)
	}
	return partition.NewList(node.IsOrdered(), items), nil
}

// lineText joins the raw source lines of a leaf block.
func lineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(bytes.TrimRight(seg.Value(src), "\r\n"))
		buf.WriteByte('\n')
	}
	return buf.String()
}

// blockText returns the trimmed source text of a block. Container blocks
// have no lines of their own, so their child blocks are joined instead.
func blockText(n ast.Node, src []byte) string {
	if n.Type() != ast.TypeBlock {
		return ""
	}
	if n.Lines().Len() > 0 {
		return strings.TrimSpace(lineText(n, src))
	}
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t := blockText(c, src); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, "\n")
}

// loneImage returns the image when it is the only content of a paragraph.
func loneImage(n ast.Node, src []byte) *ast.Image {
	var img *ast.Image
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch c := c.(type) {
		case *ast.Image:
			if img != nil {
				return nil
			}
			img = c
		case *ast.Text:
			if len(bytes.TrimSpace(c.Segment.Value(src))) != 0 {
				return nil
			}
		default:
			return nil
		}
	}
	return img
}

func plainText(n ast.Node, src []byte) string {
	var buf strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := c.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(src))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}
