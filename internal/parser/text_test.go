package parser

import (
	"reflect"
	"strings"
	"testing"
)

func TestTextParser_BasicParagraphSplitting(t *testing.T) {
	input := "First paragraph line one.\nFirst paragraph line two.\n\nSecond *paragraph*.\n\nThird paragraph."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "notes.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Title != "notes" {
		t.Errorf("expected title %q, got %q", "notes", doc.Title)
	}

	want := []rec{
		para(text("First paragraph line one.\nFirst paragraph line two.")),
		para(text("Second "), rec{"type": "bold", "value": "paragraph"}, text(".")),
		para(text("Third paragraph.")),
	}
	got := doc.Records()
	if len(got) != len(want) {
		t.Fatalf("expected %d partitions, got %d", len(want), len(got))
	}
	for i, w := range want {
		if !reflect.DeepEqual(got[i], w) {
			t.Errorf("partition[%d]: expected %#v, got %#v", i, w, got[i])
		}
	}
}

func TestTextParser_EmptyInput(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(""), "empty.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Title != "empty" {
		t.Errorf("expected title %q, got %q", "empty", doc.Title)
	}
	if len(doc.Partitions) != 0 {
		t.Errorf("expected 0 partitions for empty input, got %d", len(doc.Partitions))
	}
}

func TestTextParser_EscapedMarkersStayLiteral(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(`Price is \*not\* bold`), "single.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []rec{para(text("Price is *not* bold"))}
	if got := doc.Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}
}

func TestTextParser_MultipleBlankLines(t *testing.T) {
	// Multiple consecutive blank lines should not produce empty paragraphs.
	input := "Para one.\n\n\n\nPara two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "gaps.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Partitions) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(doc.Partitions))
	}
}

func TestTextParser_WhitespaceOnlyLines(t *testing.T) {
	// Lines with only whitespace should be treated as blank.
	input := "Para one.\n   \nPara two."
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader(input), "ws.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(doc.Partitions) != 2 {
		t.Fatalf("expected 2 partitions, got %d", len(doc.Partitions))
	}
}

func TestTextParser_CRLFLineEndings(t *testing.T) {
	p := &TextParser{}
	doc, err := p.Parse(strings.NewReader("a\r\n*b*\r\n\r\nc\r\n"), "dos.txt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []rec{
		para(text("a\n"), rec{"type": "bold", "value": "b"}),
		para(text("c")),
	}
	if got := doc.Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("expected %#v, got %#v", want, got)
	}
}
