package parser

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dgallion1/docpart/internal/doctree"
	"github.com/dgallion1/docpart/internal/inline"
	"github.com/dgallion1/docpart/internal/partition"
)

// HTMLParser handles HTML files. Block elements map onto partitions and the
// text of each block is tokenized for inline markup.
type HTMLParser struct {
	Inline *inline.Tokenizer
}

func (p *HTMLParser) Parse(r io.Reader, filename string) (*doctree.Document, error) {
	page, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	doc := &doctree.Document{
		Title: strings.TrimSuffix(strings.TrimSuffix(filename, ".html"), ".htm"),
	}
	if title := strings.TrimSpace(page.Find("title").First().Text()); title != "" {
		doc.Title = title
	}

	root := page.Find("body").First()
	if root.Length() == 0 {
		root = page.Selection
	}

	w := &htmlWalker{tk: p.Inline}
	if err := w.children(root, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

type htmlWalker struct {
	tk *inline.Tokenizer
}

func (w *htmlWalker) children(sel *goquery.Selection, doc *doctree.Document) error {
	var err error
	sel.Children().EachWithBreak(func(_ int, child *goquery.Selection) bool {
		err = w.element(child, doc)
		return err == nil
	})
	return err
}

func (w *htmlWalker) element(sel *goquery.Selection, doc *doctree.Document) error {
	tag := goquery.NodeName(sel)
	if level := headingLevel(tag); level > 0 {
		h, err := partition.NewHeader(level, inline.Unescape(strings.TrimSpace(sel.Text())))
		if err != nil {
			return err
		}
		doc.Append(h)
		return nil
	}

	switch tag {
	case "script", "style", "nav", "footer", "header", "title", "head":
		return nil
	case "hr":
		doc.Append(partition.NewPageBreak())
		return nil
	case "img":
		doc.Append(partition.NewImage(sel.AttrOr("alt", ""), sel.AttrOr("src", "")))
		return nil
	case "ul", "ol":
		list, err := w.list(sel)
		if err != nil {
			return err
		}
		doc.Append(list)
		return nil
	case "blockquote":
		if t := strings.TrimSpace(sel.Text()); t != "" {
			q, err := quoteblock(w.tk, t)
			if err != nil {
				return err
			}
			doc.Append(q)
		}
		return nil
	case "p", "pre", "td", "dd", "dt":
		return w.paragraph(sel.Text(), doc)
	}

	// Generic containers: descend when they hold elements, otherwise keep
	// their text as a paragraph.
	if sel.Children().Length() > 0 {
		return w.children(sel, doc)
	}
	return w.paragraph(sel.Text(), doc)
}

func (w *htmlWalker) paragraph(s string, doc *doctree.Document) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	para, err := paragraph(w.tk, s)
	if err != nil {
		return err
	}
	doc.Append(para)
	return nil
}

// list builds a list from the li children of sel. Nested lists follow their
// parent item as items of their own.
func (w *htmlWalker) list(sel *goquery.Selection) (partition.Partition, error) {
	var (
		items []partition.Partition
		err   error
	)
	sel.ChildrenFiltered("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		own := li.Clone()
		own.Find("ul, ol").Remove()
		if t := strings.TrimSpace(own.Text()); t != "" {
			var para partition.Partition
			if para, err = paragraph(w.tk, t); err != nil {
				return false
			}
			items = append(items, para)
		}
		li.ChildrenFiltered("ul, ol").EachWithBreak(func(_ int, sub *goquery.Selection) bool {
			var nested partition.Partition
			if nested, err = w.list(sub); err != nil {
				return false
			}
			items = append(items, nested)
			return true
		})
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return partition.NewList(goquery.NodeName(sel) == "ol", items), nil
}

func headingLevel(tag string) int {
	switch tag {
	case "h1":
		return 1
	case "h2":
		return 2
	case "h3":
		return 3
	case "h4":
		return 4
	case "h5":
		return 5
	case "h6":
		return 6
	}
	return 0
}
