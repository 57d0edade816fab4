package inline

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dgallion1/docpart/internal/partition"
)

// DefaultMaxDepth bounds how many emphasis levels may hold nested markup.
const DefaultMaxDepth = 32

// ErrNestingTooDeep is returned when emphasis nesting exceeds the tokenizer's
// depth limit.
var ErrNestingTooDeep = errors.New("inline nesting too deep")

// Option configures a Tokenizer.
type Option func(*Tokenizer)

// WithMaxDepth sets the nesting limit. Zero allows only a flat sequence of
// leaf nodes; negative values select DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(t *Tokenizer) {
		if n < 0 {
			n = DefaultMaxDepth
		}
		t.maxDepth = n
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(t *Tokenizer) {
		if log != nil {
			t.log = log
		}
	}
}

// Tokenizer turns inline markup into partitions. It holds no per-call state
// and is safe for concurrent use.
type Tokenizer struct {
	maxDepth int
	log      *slog.Logger
}

// New returns a Tokenizer with opts applied over the defaults.
func New(opts ...Option) *Tokenizer {
	t := &Tokenizer{
		maxDepth: DefaultMaxDepth,
		log:      slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

var std = New()

// Tokenize runs the default Tokenizer over text.
func Tokenize(text string) ([]partition.Partition, error) {
	return std.Tokenize(text)
}

// TokenizeOrText runs the default Tokenizer and substitutes a literal text
// node when text has no markup.
func TokenizeOrText(text string) ([]partition.Partition, error) {
	return std.TokenizeOrText(text)
}

// Literal returns text as a single text node with backslashes removed.
func Literal(text string) partition.Partition {
	return partition.NewText(Unescape(text))
}

// Tokenize returns the partitions covering text. A nil slice with a nil error
// means text is empty or carries no markup and should be kept literal.
// Malformed markup is never an error; the only failure is ErrNestingTooDeep.
func (t *Tokenizer) Tokenize(text string) ([]partition.Partition, error) {
	return t.tokenize(text, 0)
}

// TokenizeOrText is Tokenize with the literal substitution applied.
func (t *Tokenizer) TokenizeOrText(text string) ([]partition.Partition, error) {
	parts, err := t.Tokenize(text)
	if err != nil {
		return nil, err
	}
	if parts == nil {
		return []partition.Partition{Literal(text)}, nil
	}
	return parts, nil
}

func (t *Tokenizer) tokenize(s string, depth int) ([]partition.Partition, error) {
	if s == "" {
		return nil, nil
	}
	sc := newScanner(s)
	next := sc.nextMarkerStart(0)
	if next == len(s) {
		return nil, nil
	}
	if depth > t.maxDepth {
		t.log.Debug("inline nesting limit reached", "depth", depth, "max_depth", t.maxDepth)
		return nil, fmt.Errorf("%w: %d levels, limit %d", ErrNestingTooDeep, depth, t.maxDepth)
	}

	var out []partition.Partition
	appendText := func(raw string) {
		if v := Unescape(raw); v != "" {
			out = append(out, partition.NewText(v))
		}
	}
	cursor := 0
	for next < len(s) {
		if next > cursor {
			appendText(s[cursor:next])
			cursor = next
		} else {
			node, end, err := t.dispatch(sc, cursor, depth)
			if err != nil {
				return nil, err
			}
			out = append(out, node)
			cursor = end
		}
		next = sc.nextMarkerStart(cursor)
	}
	if cursor < len(s) {
		appendText(s[cursor:])
	}
	return out, nil
}

// dispatch builds the node for the marker at s[at] and returns the index just
// past its closer.
func (t *Tokenizer) dispatch(sc *scanner, at, depth int) (partition.Partition, int, error) {
	s := sc.s
	switch c := s[at]; c {
	case '*', '_':
		if end := sc.nextValid(c, at+1); end >= 0 {
			node, err := t.emphasis(c, s[at+1:end], depth)
			return node, end + 1, err
		}
	case linkBracket.open:
		if sp, ok := sc.spanAt(at); ok {
			return partition.NewLink(
				Unescape(s[at+1:sp.sep]),
				Unescape(s[sp.sep+len(linkBracket.sep):sp.end]),
			), sp.end + 1, nil
		}
	case relationBracket.open:
		if sp, ok := sc.spanAt(at); ok {
			label := Unescape(s[at+1:sp.sep])
			target := Unescape(s[sp.sep+len(relationBracket.sep) : sp.end])
			if strings.HasPrefix(target, "#") {
				return partition.NewColor(label, target[1:]), sp.end + 1, nil
			}
			return partition.NewRelation(label, target), sp.end + 1, nil
		}
	}
	// The scanner only reports markers it can close, so this is not reached
	// for well-formed scanning; keep the byte as text and move on.
	return partition.NewText(s[at : at+1]), at + 1, nil
}

func (t *Tokenizer) emphasis(c byte, inner string, depth int) (partition.Partition, error) {
	typ := partition.TypeBold
	if c == '_' {
		typ = partition.TypeItalics
	}
	span, err := partition.NewSpan(typ)
	if err != nil {
		return nil, err
	}
	children, err := t.tokenize(inner, depth+1)
	if err != nil {
		return nil, err
	}
	if children == nil {
		err = span.SetValue(Unescape(inner))
	} else {
		err = span.SetPartitions(children)
	}
	if err != nil {
		return nil, err
	}
	return span, nil
}

// Unescape removes every backslash from s.
func Unescape(s string) string {
	return strings.ReplaceAll(s, `\`, "")
}
