package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dgallion1/docpart/internal/partition"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const quoteIndent = 4

// Text writes records as plain text wrapped to width columns. Blocks are
// separated by a blank line.
func Text(w io.Writer, records []partition.Record, width int) error {
	if width <= 0 {
		width = DefaultWidth
	}
	blocks := make([]string, 0, len(records))
	for _, rec := range records {
		s, err := textBlock(rec, width)
		if err != nil {
			return fmt.Errorf("render text: %w", err)
		}
		blocks = append(blocks, s)
	}
	if len(blocks) == 0 {
		return nil
	}
	_, err := io.WriteString(w, strings.Join(blocks, "\n\n")+"\n")
	return err
}

func textBlock(rec partition.Record, width int) (string, error) {
	typ := recordType(rec)
	switch typ {
	case partition.TypeParagraph, partition.TypeText, partition.TypeBold,
		partition.TypeItalics, partition.TypeLink, partition.TypeRelation,
		partition.TypeColor, partition.TypeImage:
		return wordwrap.String(plain(rec), width), nil
	case partition.TypeQuoteblock:
		body := wordwrap.String(plain(rec), max(width-quoteIndent, 1))
		return indent.String(body, quoteIndent), nil
	case partition.TypePageBreak:
		return strings.Repeat("-", width), nil
	case partition.TypeUnorderedList, partition.TypeOrderedList:
		return textList(rec, width)
	}
	if partition.IsHeader(typ) {
		v := str(rec, "value")
		switch partition.HeaderLevel(typ) {
		case 1:
			return v + "\n" + strings.Repeat("=", utf8.RuneCountInString(v)), nil
		case 2:
			return v + "\n" + strings.Repeat("-", utf8.RuneCountInString(v)), nil
		}
		return v, nil
	}
	return "", unknownType(rec)
}

// textList renders one line group per item with a bullet or number. Item
// text is wrapped and hangs under its marker; nested lists are indented by
// two columns.
func textList(rec partition.Record, width int) (string, error) {
	ordered := recordType(rec) == partition.TypeOrderedList
	var (
		lines []string
		n     int
	)
	for _, item := range children(rec, "items") {
		switch recordType(item) {
		case partition.TypeUnorderedList, partition.TypeOrderedList:
			nested, err := textList(item, max(width-2, 1))
			if err != nil {
				return "", err
			}
			lines = append(lines, indent.String(nested, 2))
			continue
		}

		n++
		marker := "- "
		if ordered {
			marker = fmt.Sprintf("%d. ", n)
		}
		body := wordwrap.String(plain(item), max(width-len(marker), 1))
		if body == "" {
			lines = append(lines, strings.TrimSpace(marker))
			continue
		}
		body = indent.String(body, uint(len(marker)))
		lines = append(lines, marker+body[len(marker):])
	}
	return strings.Join(lines, "\n"), nil
}
