package partition

// noPartitions is embedded by nodes whose partitions payload is never set.
type noPartitions struct{}

func (noPartitions) HasPartitions() bool { return false }

// Header is an h1..h6 heading with a fixed value.
type Header struct {
	noPartitions
	level int
	value string
}

// NewHeader returns a header of the given level (1..6).
func NewHeader(level int, v string) (*Header, error) {
	if level < 1 || level > len(headerTypes) {
		return nil, invariant(TypeHeader1, "new header", ErrInvalidLevel)
	}
	return &Header{level: level, value: v}, nil
}

func (h *Header) Level() int { return h.level }

func (h *Header) Type() Type { return headerTypes[h.level-1] }

func (h *Header) HasValue() bool { return true }

func (h *Header) Value() (string, error) { return h.value, nil }

func (h *Header) Partitions() ([]Partition, error) {
	return nil, invariant(h.Type(), "partitions", ErrPartitionsNotSet)
}

func (h *Header) Export() Record {
	return Record{"type": string(h.Type()), "value": h.value}
}

func (h *Header) Copy() Partition {
	return &Header{level: h.level, value: h.value}
}

// Link is a [label](target) span.
type Link struct {
	noPartitions
	value string
	link  string
}

func NewLink(v, link string) *Link {
	return &Link{value: v, link: link}
}

func (l *Link) Target() string { return l.link }

func (l *Link) Type() Type { return TypeLink }

func (l *Link) HasValue() bool { return true }

func (l *Link) Value() (string, error) { return l.value, nil }

func (l *Link) Partitions() ([]Partition, error) {
	return nil, invariant(TypeLink, "partitions", ErrPartitionsNotSet)
}

func (l *Link) Export() Record {
	return Record{"type": string(TypeLink), "value": l.value, "link": l.link}
}

func (l *Link) Copy() Partition {
	return &Link{value: l.value, link: l.link}
}

// Relation is a {label}(target) cross-reference.
type Relation struct {
	noPartitions
	value    string
	relation string
}

func NewRelation(v, relation string) *Relation {
	return &Relation{value: v, relation: relation}
}

func (r *Relation) Relation() string { return r.relation }

func (r *Relation) Type() Type { return TypeRelation }

func (r *Relation) HasValue() bool { return true }

func (r *Relation) Value() (string, error) { return r.value, nil }

func (r *Relation) Partitions() ([]Partition, error) {
	return nil, invariant(TypeRelation, "partitions", ErrPartitionsNotSet)
}

func (r *Relation) Export() Record {
	return Record{"type": string(TypeRelation), "value": r.value, "relation": r.relation}
}

func (r *Relation) Copy() Partition {
	return &Relation{value: r.value, relation: r.relation}
}

// Color is a {label}(#hex) styled span. The color holds the hex digits
// without the leading '#'.
type Color struct {
	noPartitions
	value string
	color string
}

func NewColor(v, color string) *Color {
	return &Color{value: v, color: color}
}

func (c *Color) Color() string { return c.color }

func (c *Color) Type() Type { return TypeColor }

func (c *Color) HasValue() bool { return true }

func (c *Color) Value() (string, error) { return c.value, nil }

func (c *Color) Partitions() ([]Partition, error) {
	return nil, invariant(TypeColor, "partitions", ErrPartitionsNotSet)
}

func (c *Color) Export() Record {
	return Record{"type": string(TypeColor), "value": c.value, "color": c.color}
}

func (c *Color) Copy() Partition {
	return &Color{value: c.value, color: c.color}
}

// List is an ordered or unordered list. Its entries live in Items; it has
// neither a value nor partitions.
type List struct {
	noPartitions
	ordered bool
	items   []Partition
}

func NewList(ordered bool, items []Partition) *List {
	return &List{ordered: ordered, items: nonNil(items)}
}

func (l *List) Ordered() bool { return l.ordered }

func (l *List) Items() []Partition { return l.items }

func (l *List) Type() Type {
	if l.ordered {
		return TypeOrderedList
	}
	return TypeUnorderedList
}

func (l *List) HasValue() bool { return false }

func (l *List) Value() (string, error) {
	return "", invariant(l.Type(), "value", ErrValueNotSet)
}

func (l *List) Partitions() ([]Partition, error) {
	return nil, invariant(l.Type(), "partitions", ErrPartitionsNotSet)
}

func (l *List) Export() Record {
	return Record{"type": string(l.Type()), "items": ExportAll(l.items)}
}

func (l *List) Copy() Partition {
	return &List{ordered: l.ordered, items: append([]Partition{}, l.items...)}
}

// Image carries alt text and a link and nothing else.
type Image struct {
	noPartitions
	altText string
	link    string
}

func NewImage(altText, link string) *Image {
	return &Image{altText: altText, link: link}
}

func (i *Image) AltText() string { return i.altText }

func (i *Image) Link() string { return i.link }

func (i *Image) Type() Type { return TypeImage }

func (i *Image) HasValue() bool { return false }

func (i *Image) Value() (string, error) {
	return "", invariant(TypeImage, "value", ErrValueNotSet)
}

func (i *Image) Partitions() ([]Partition, error) {
	return nil, invariant(TypeImage, "partitions", ErrPartitionsNotSet)
}

func (i *Image) Export() Record {
	return Record{"type": string(TypeImage), "altText": i.altText, "link": i.link}
}

func (i *Image) Copy() Partition {
	return &Image{altText: i.altText, link: i.link}
}

// PageBreak has no payload.
type PageBreak struct {
	noPartitions
}

func NewPageBreak() *PageBreak { return &PageBreak{} }

func (*PageBreak) Type() Type { return TypePageBreak }

func (*PageBreak) HasValue() bool { return false }

func (*PageBreak) Value() (string, error) {
	return "", invariant(TypePageBreak, "value", ErrValueNotSet)
}

func (*PageBreak) Partitions() ([]Partition, error) {
	return nil, invariant(TypePageBreak, "partitions", ErrPartitionsNotSet)
}

func (*PageBreak) Export() Record {
	return Record{"type": string(TypePageBreak)}
}

func (*PageBreak) Copy() Partition { return &PageBreak{} }
