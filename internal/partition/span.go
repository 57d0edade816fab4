package partition

// Span is a node holding either a string value or child partitions, never
// both: paragraphs, text runs, bold, italics and quote blocks.
type Span struct {
	typ        Type
	value      string
	hasValue   bool
	partitions []Partition
}

var spanTypes = map[Type]bool{
	TypeParagraph:  true,
	TypeText:       true,
	TypeBold:       true,
	TypeItalics:    true,
	TypeQuoteblock: true,
}

// NewSpan returns an empty span of type t.
func NewSpan(t Type) (*Span, error) {
	if !spanTypes[t] {
		return nil, invariant(t, "new span", ErrNotSpan)
	}
	return &Span{typ: t}, nil
}

// NewText returns a text run holding v.
func NewText(v string) *Span {
	return &Span{typ: TypeText, value: v, hasValue: true}
}

// NewBold returns a leaf bold span holding v.
func NewBold(v string) *Span {
	return &Span{typ: TypeBold, value: v, hasValue: true}
}

// NewItalics returns a leaf italics span holding v.
func NewItalics(v string) *Span {
	return &Span{typ: TypeItalics, value: v, hasValue: true}
}

// NewParagraph returns a paragraph over children.
func NewParagraph(children []Partition) *Span {
	return &Span{typ: TypeParagraph, partitions: nonNil(children)}
}

// NewQuoteblock returns a quote block over children.
func NewQuoteblock(children []Partition) *Span {
	return &Span{typ: TypeQuoteblock, partitions: nonNil(children)}
}

func nonNil(children []Partition) []Partition {
	if children == nil {
		return []Partition{}
	}
	return children
}

func (s *Span) Type() Type { return s.typ }

func (s *Span) HasValue() bool { return s.hasValue }

func (s *Span) HasPartitions() bool { return s.partitions != nil }

// SetValue assigns the value payload. It fails when partitions are set.
func (s *Span) SetValue(v string) error {
	if s.HasPartitions() {
		return invariant(s.typ, "set value", ErrMixedPayload)
	}
	s.value = v
	s.hasValue = true
	return nil
}

// SetPartitions assigns the partitions payload. It fails when a value is set.
func (s *Span) SetPartitions(children []Partition) error {
	if s.hasValue {
		return invariant(s.typ, "set partitions", ErrMixedPayload)
	}
	s.partitions = nonNil(children)
	return nil
}

func (s *Span) Value() (string, error) {
	if !s.hasValue {
		return "", invariant(s.typ, "value", ErrValueNotSet)
	}
	return s.value, nil
}

func (s *Span) Partitions() ([]Partition, error) {
	if !s.HasPartitions() {
		return nil, invariant(s.typ, "partitions", ErrPartitionsNotSet)
	}
	return s.partitions, nil
}

func (s *Span) Export() Record {
	switch {
	case s.hasValue:
		return Record{"type": string(s.typ), "value": s.value}
	case s.HasPartitions():
		return Record{"type": string(s.typ), "partitions": ExportAll(s.partitions)}
	}
	return Record{"type": string(s.typ)}
}

func (s *Span) Copy() Partition {
	c := &Span{typ: s.typ, value: s.value, hasValue: s.hasValue}
	if s.partitions != nil {
		c.partitions = append([]Partition{}, s.partitions...)
	}
	return c
}
