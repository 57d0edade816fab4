package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docpart/internal/partition"
	"github.com/fumiama/go-docx"
)

// DOCX writes records as a Word document. Headers use the Heading1..6
// paragraph styles; emphasis and colors become run formatting.
func DOCX(w io.Writer, records []partition.Record) error {
	doc := docx.New().WithDefaultTheme()
	for _, rec := range records {
		if err := docxBlock(doc, rec, 0); err != nil {
			return fmt.Errorf("render docx: %w", err)
		}
	}
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("render docx: %w", err)
	}
	return nil
}

// runStyle is the formatting inherited by nested inline records.
type runStyle struct {
	bold, italic bool
}

func docxBlock(doc *docx.Docx, rec partition.Record, depth int) error {
	typ := recordType(rec)
	switch typ {
	case partition.TypePageBreak:
		doc.AddParagraph().AddPageBreaks()
		return nil
	case partition.TypeQuoteblock:
		return docxRuns(doc.AddParagraph(), rec, runStyle{italic: true})
	case partition.TypeUnorderedList, partition.TypeOrderedList:
		return docxList(doc, rec, depth)
	case partition.TypeParagraph, partition.TypeText, partition.TypeBold,
		partition.TypeItalics, partition.TypeLink, partition.TypeRelation,
		partition.TypeColor, partition.TypeImage:
		return docxRuns(doc.AddParagraph(), rec, runStyle{})
	}
	if partition.IsHeader(typ) {
		para := doc.AddParagraph().Style(fmt.Sprintf("Heading%d", partition.HeaderLevel(typ)))
		para.AddText(str(rec, "value"))
		return nil
	}
	return unknownType(rec)
}

func docxList(doc *docx.Docx, rec partition.Record, depth int) error {
	ordered := recordType(rec) == partition.TypeOrderedList
	pad := strings.Repeat("    ", depth)
	n := 0
	for _, item := range children(rec, "items") {
		switch recordType(item) {
		case partition.TypeUnorderedList, partition.TypeOrderedList:
			if err := docxList(doc, item, depth+1); err != nil {
				return err
			}
			continue
		}
		n++
		marker := "• "
		if ordered {
			marker = fmt.Sprintf("%d. ", n)
		}
		para := doc.AddParagraph()
		para.AddText(pad + marker)
		if err := docxRuns(para, item, runStyle{}); err != nil {
			return err
		}
	}
	return nil
}

// docxRuns appends the inline content of rec to para.
func docxRuns(para *docx.Paragraph, rec partition.Record, st runStyle) error {
	switch recordType(rec) {
	case partition.TypeLink:
		para.AddLink(str(rec, "value"), str(rec, "link"))
		return nil
	case partition.TypeRelation:
		para.AddLink(str(rec, "value"), "#"+str(rec, "relation"))
		return nil
	case partition.TypeImage:
		para.AddLink(str(rec, "altText"), str(rec, "link"))
		return nil
	case partition.TypeColor:
		run := st.apply(para.AddText(str(rec, "value")))
		if c := str(rec, "color"); isHexColor(c) {
			run.Color(c)
		}
		return nil
	case partition.TypeBold:
		st.bold = true
	case partition.TypeItalics:
		st.italic = true
	case partition.TypeText, partition.TypeParagraph, partition.TypeQuoteblock:
	default:
		return unknownType(rec)
	}

	if v, ok := rec["value"].(string); ok {
		st.apply(para.AddText(v))
		return nil
	}
	for _, c := range children(rec, "partitions") {
		if err := docxRuns(para, c, st); err != nil {
			return err
		}
	}
	return nil
}

func (st runStyle) apply(r *docx.Run) *docx.Run {
	if st.bold {
		r.Bold()
	}
	if st.italic {
		r.Italic()
	}
	return r
}
