package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgallion1/docpart/internal/partition"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// HTML writes records as a standalone HTML document.
func HTML(w io.Writer, title string, records []partition.Record) error {
	body := element("body")
	for _, rec := range records {
		n, err := htmlNode(rec)
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		body.AppendChild(textNode("\n"))
		body.AppendChild(n)
	}
	body.AppendChild(textNode("\n"))

	head := element("head")
	head.AppendChild(element("meta", attr("charset", "utf-8")))
	if title != "" {
		t := element("title")
		t.AppendChild(textNode(title))
		head.AppendChild(t)
	}

	root := element("html")
	root.AppendChild(head)
	root.AppendChild(body)

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	doc.AppendChild(root)
	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// HTMLFragment writes records as a sequence of HTML elements with no
// surrounding document.
func HTMLFragment(w io.Writer, records []partition.Record) error {
	for _, rec := range records {
		n, err := htmlNode(rec)
		if err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		if err := html.Render(w, n); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
	}
	return nil
}

func htmlNode(rec partition.Record) (*html.Node, error) {
	typ := recordType(rec)
	switch typ {
	case partition.TypeText:
		return textNode(str(rec, "value")), nil
	case partition.TypeParagraph:
		return htmlContainer(element("p"), rec)
	case partition.TypeQuoteblock:
		return htmlContainer(element("blockquote"), rec)
	case partition.TypeBold:
		return htmlContainer(element("strong"), rec)
	case partition.TypeItalics:
		return htmlContainer(element("em"), rec)
	case partition.TypeLink:
		a := element("a", urlAttr("href", str(rec, "link"))...)
		a.AppendChild(textNode(str(rec, "value")))
		return a, nil
	case partition.TypeRelation:
		target := str(rec, "relation")
		a := element("a", attr("href", "#"+target), attr("data-relation", target))
		a.AppendChild(textNode(str(rec, "value")))
		return a, nil
	case partition.TypeColor:
		var span *html.Node
		if c := str(rec, "color"); isHexColor(c) {
			span = element("span", attr("style", "color:#"+c))
		} else {
			span = element("span")
		}
		span.AppendChild(textNode(str(rec, "value")))
		return span, nil
	case partition.TypeImage:
		attrs := append([]html.Attribute{attr("alt", str(rec, "altText"))}, urlAttr("src", str(rec, "link"))...)
		return element("img", attrs...), nil
	case partition.TypePageBreak:
		return element("hr"), nil
	case partition.TypeUnorderedList, partition.TypeOrderedList:
		list := element(string(typ))
		for _, item := range children(rec, "items") {
			li := element("li")
			switch recordType(item) {
			case partition.TypeParagraph:
				if _, err := htmlContainer(li, item); err != nil {
					return nil, err
				}
			default:
				n, err := htmlNode(item)
				if err != nil {
					return nil, err
				}
				li.AppendChild(n)
			}
			list.AppendChild(li)
		}
		return list, nil
	}
	if partition.IsHeader(typ) {
		h := element(string(typ))
		h.AppendChild(textNode(str(rec, "value")))
		return h, nil
	}
	return nil, unknownType(rec)
}

// htmlContainer fills n from a span record: its value as text, or its nested
// partitions as child elements.
func htmlContainer(n *html.Node, rec partition.Record) (*html.Node, error) {
	if v, ok := rec["value"].(string); ok {
		n.AppendChild(textNode(v))
		return n, nil
	}
	for _, c := range children(rec, "partitions") {
		child, err := htmlNode(c)
		if err != nil {
			return nil, err
		}
		n.AppendChild(child)
	}
	return n, nil
}

func element(tag string, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
		Attr:     attrs,
	}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

// urlAttr returns the attribute for a link target, or nothing when goldmark
// would refuse to render the URL. Browsers ignore whitespace and control
// bytes inside a scheme, so those are dropped before the check.
func urlAttr(key, url string) []html.Attribute {
	squeezed := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, url)
	if gmhtml.IsDangerousURL([]byte(strings.ToLower(squeezed))) {
		return nil
	}
	return []html.Attribute{attr(key, url)}
}

// isHexColor reports whether c is a 3, 6 or 8 digit hex color without the
// leading '#'.
func isHexColor(c string) bool {
	switch len(c) {
	case 3, 6, 8:
	default:
		return false
	}
	for i := 0; i < len(c); i++ {
		switch b := c[i]; {
		case '0' <= b && b <= '9', 'a' <= b && b <= 'f', 'A' <= b && b <= 'F':
		default:
			return false
		}
	}
	return true
}

func textNode(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}
