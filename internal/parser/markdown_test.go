package parser

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/dgallion1/docpart/internal/inline"
	"github.com/dgallion1/docpart/internal/partition"
)

type rec = partition.Record

func text(v string) rec { return rec{"type": "text", "value": v} }
func para(children ...rec) rec {
	if children == nil {
		children = []rec{}
	}
	return rec{"type": "p", "partitions": children}
}

func TestMarkdownParser_BlockKinds(t *testing.T) {
	input := `# Title

Intro *text*.

## Section A

- one
- _two_
  - nested

> quoted

---

![alt text](img.png)
`
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "doc.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "doc" {
		t.Errorf("expected title %q, got %q", "doc", doc.Title)
	}

	want := []rec{
		{"type": "h1", "value": "Title"},
		para(text("Intro "), rec{"type": "bold", "value": "text"}, text(".")),
		{"type": "h2", "value": "Section A"},
		{"type": "ul", "items": []rec{
			para(text("one")),
			para(rec{"type": "italics", "value": "two"}),
			{"type": "ul", "items": []rec{para(text("nested"))}},
		}},
		{"type": "quotes", "partitions": []rec{text("quoted")}},
		{"type": "hr"},
		{"type": "image", "altText": "alt text", "link": "img.png"},
	}
	got := doc.Records()
	if len(got) != len(want) {
		t.Fatalf("expected %d partitions, got %d: %#v", len(want), len(got), got)
	}
	for i := range want {
		if !reflect.DeepEqual(got[i], want[i]) {
			t.Errorf("partition[%d]:\n got: %#v\nwant: %#v", i, got[i], want[i])
		}
	}
}

func TestMarkdownParser_InlineLinksAndRelations(t *testing.T) {
	input := "See [docs](http://d) and {this}(intro) in {red}(#ff0000).\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "links.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []rec{para(
		text("See "),
		rec{"type": "link", "value": "docs", "link": "http://d"},
		text(" and "),
		rec{"type": "relation", "value": "this", "relation": "intro"},
		text(" in "),
		rec{"type": "color", "value": "red", "color": "ff0000"},
		text("."),
	)}
	if got := doc.Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("\n got: %#v\nwant: %#v", got, want)
	}
}

func TestMarkdownParser_OrderedList(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader("1. first\n2. second\n"), "ol.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Partitions) != 1 {
		t.Fatalf("expected 1 partition, got %d", len(doc.Partitions))
	}
	list, ok := doc.Partitions[0].(*partition.List)
	if !ok {
		t.Fatalf("expected *partition.List, got %T", doc.Partitions[0])
	}
	if !list.Ordered() {
		t.Error("expected ordered list")
	}
	if len(list.Items()) != 2 {
		t.Errorf("expected 2 items, got %d", len(list.Items()))
	}
}

func TestMarkdownParser_CodeBlocksStayLiteral(t *testing.T) {
	input := "Intro.\n\n```\nGET *users*\nPOST /api/users\n```\n\nMore text after code.\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "api.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []rec{
		para(text("Intro.")),
		para(text("GET *users*\nPOST /api/users")),
		para(text("More text after code.")),
	}
	if got := doc.Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("\n got: %#v\nwant: %#v", got, want)
	}
}

func TestMarkdownParser_FrontMatterTitle(t *testing.T) {
	input := "---\ntitle: Release Notes\n---\n# Hi\n"

	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "Release Notes" {
		t.Errorf("expected title %q, got %q", "Release Notes", doc.Title)
	}
	if len(doc.Partitions) != 1 || doc.Partitions[0].Type() != partition.TypeHeader1 {
		t.Errorf("expected a single h1, got %#v", doc.Records())
	}
}

func TestMarkdownParser_EmptyInput(t *testing.T) {
	p := &MarkdownParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.md")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Partitions) != 0 {
		t.Errorf("expected 0 partitions for empty input, got %d", len(doc.Partitions))
	}
}

func TestMarkdownParser_TitleStripping(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"readme.md", "readme"},
		{"notes.markdown", "notes"},
		{"plain.md", "plain"},
	}
	p := &MarkdownParser{}
	for _, tt := range tests {
		doc, err := p.Parse(strings.NewReader("text"), tt.filename)
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", tt.filename, err)
		}
		if doc.Title != tt.want {
			t.Errorf("filename=%q: expected title %q, got %q", tt.filename, tt.want, doc.Title)
		}
	}
}

func TestMarkdownParser_NestingLimit(t *testing.T) {
	p := &MarkdownParser{Inline: inline.New(inline.WithMaxDepth(0))}
	_, err := p.Parse(strings.NewReader("*_deep_*\n"), "deep.md")
	if !errors.Is(err, inline.ErrNestingTooDeep) {
		t.Fatalf("expected ErrNestingTooDeep, got %v", err)
	}
}
