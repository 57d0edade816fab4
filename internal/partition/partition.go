package partition

import (
	"errors"
	"fmt"
)

// Type identifies the kind of a partition. The string form is the "type"
// field of an exported record.
type Type string

const (
	TypeHeader1       Type = "h1"
	TypeHeader2       Type = "h2"
	TypeHeader3       Type = "h3"
	TypeHeader4       Type = "h4"
	TypeHeader5       Type = "h5"
	TypeHeader6       Type = "h6"
	TypeParagraph     Type = "p"
	TypeText          Type = "text"
	TypeBold          Type = "bold"
	TypeItalics       Type = "italics"
	TypeLink          Type = "link"
	TypeRelation      Type = "relation"
	TypeColor         Type = "color"
	TypeUnorderedList Type = "ul"
	TypeOrderedList   Type = "ol"
	TypeImage         Type = "image"
	TypePageBreak     Type = "hr"
	TypeQuoteblock    Type = "quotes"
)

var headerTypes = [...]Type{TypeHeader1, TypeHeader2, TypeHeader3, TypeHeader4, TypeHeader5, TypeHeader6}

var (
	// ErrMixedPayload reports an attempt to give a node both a value and partitions.
	ErrMixedPayload = errors.New("cannot have both value and partitions set")
	// ErrValueNotSet reports a read of a value that was never assigned.
	ErrValueNotSet = errors.New("value is not set")
	// ErrPartitionsNotSet reports a read of partitions that were never assigned.
	ErrPartitionsNotSet = errors.New("partitions is not set")
	// ErrInvalidLevel reports a header level outside 1..6.
	ErrInvalidLevel = errors.New("header level out of range")
	// ErrNotSpan reports a span constructed with a type that is not span-shaped.
	ErrNotSpan = errors.New("type does not carry a value or partitions payload")
)

// InvariantError is returned when a node is used against its payload contract.
// It always indicates a programming error.
type InvariantError struct {
	Type Type
	Op   string
	Err  error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("partition %s: %s: %v", e.Type, e.Op, e.Err)
}

func (e *InvariantError) Unwrap() error { return e.Err }

func invariant(t Type, op string, err error) error {
	return &InvariantError{Type: t, Op: op, Err: err}
}

// Partition is one node of an inline or document tree.
type Partition interface {
	Type() Type
	HasValue() bool
	HasPartitions() bool
	Value() (string, error)
	Partitions() ([]Partition, error)
	Export() Record
	Copy() Partition
}

// Record is the plain-data form of a partition.
type Record map[string]any

// ExportAll lowers a sequence of partitions into records.
func ExportAll(partitions []Partition) []Record {
	out := make([]Record, 0, len(partitions))
	for _, p := range partitions {
		out = append(out, p.Export())
	}
	return out
}

// IsHeader reports whether t is one of h1..h6.
func IsHeader(t Type) bool {
	return HeaderLevel(t) > 0
}

// HeaderLevel returns 1..6 for header types and 0 otherwise.
func HeaderLevel(t Type) int {
	for i, ht := range headerTypes {
		if ht == t {
			return i + 1
		}
	}
	return 0
}
