package doctree

import (
	"testing"

	"github.com/dgallion1/docpart/internal/partition"
)

func TestDocument_Stats(t *testing.T) {
	h, _ := partition.NewHeader(1, "Title")
	doc := &Document{Title: "doc"}
	doc.Append(
		h,
		partition.NewParagraph([]partition.Partition{
			partition.NewText("a "),
			partition.NewBold("b"),
		}),
		partition.NewList(false, []partition.Partition{
			partition.NewParagraph([]partition.Partition{partition.NewLink("l", "u")}),
			partition.NewParagraph([]partition.Partition{partition.NewText("two")}),
		}),
		partition.NewPageBreak(),
	)

	stats := doc.Stats()
	want := map[partition.Type]int{
		partition.TypeHeader1:       1,
		partition.TypeParagraph:     3,
		partition.TypeText:          2,
		partition.TypeBold:          1,
		partition.TypeUnorderedList: 1,
		partition.TypeLink:          1,
		partition.TypePageBreak:     1,
	}
	for typ, n := range want {
		if stats[typ] != n {
			t.Errorf("expected %d %s nodes, got %d", n, typ, stats[typ])
		}
	}
	if len(stats) != len(want) {
		t.Errorf("expected %d node types, got %d", len(want), len(stats))
	}
}

func TestDocument_Export(t *testing.T) {
	doc := &Document{Title: "t"}
	doc.Append(partition.NewText("x"))

	out := doc.Export()
	if out["title"] != "t" {
		t.Errorf("expected title %q, got %v", "t", out["title"])
	}
	recs, ok := out["partitions"].([]partition.Record)
	if !ok || len(recs) != 1 {
		t.Fatalf("expected 1 exported partition, got %#v", out["partitions"])
	}
	if recs[0]["value"] != "x" {
		t.Errorf("expected value %q, got %v", "x", recs[0]["value"])
	}
}

func TestDocument_EmptyExport(t *testing.T) {
	doc := &Document{}
	recs := doc.Records()
	if recs == nil || len(recs) != 0 {
		t.Errorf("expected empty non-nil records, got %#v", recs)
	}
}
