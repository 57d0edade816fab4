package inline

import (
	"sort"
	"strings"
)

const notFound = -1

// bracket describes a two-part span such as [label](target).
type bracket struct {
	open byte
	sep  string
}

var (
	linkBracket     = bracket{open: '[', sep: "]("}
	relationBracket = bracket{open: '{', sep: "}("}
	brackets        = [...]bracket{linkBracket, relationBracket}
	emphasisMarkers = [...]byte{'*', '_'}
)

func escaped(s string, i int) bool {
	return i > 0 && s[i-1] == '\\'
}

func emphasisIndex(c byte) int {
	for i, m := range emphasisMarkers {
		if c == m {
			return i
		}
	}
	return notFound
}

func bracketIndex(c byte) int {
	for i, b := range brackets {
		if c == b.open {
			return i
		}
	}
	return notFound
}

// nextUnescaped returns the first index >= from holding c that is not
// preceded by a backslash.
func nextUnescaped(s string, c byte, from int) int {
	for from < len(s) {
		i := strings.IndexByte(s[from:], c)
		if i < 0 {
			return notFound
		}
		i += from
		if !escaped(s, i) {
			return i
		}
		from = i + 1
	}
	return notFound
}

// span is a complete link, relation or color span: s[open] is the opener,
// s[sep:] starts with the separator and s[end] is the closing parenthesis.
type span struct {
	open, sep, end int
}

// spanFinder resolves spans for openers visited in increasing order. Every
// search resumes where the previous one stopped, so one pass over a string
// costs time linear in its length.
type spanFinder struct {
	s       string
	b       bracket
	lineEnd int
	sep     int
	close   int
}

func newSpanFinder(s string, b bracket) *spanFinder {
	return &spanFinder{s: s, b: b, lineEnd: notFound, sep: notFound, close: notFound}
}

// find returns the span opened at open. The separator and the first
// unescaped ')' after it must both sit on the opener's line.
func (f *spanFinder) find(open int) (span, bool) {
	s := f.s
	if f.lineEnd < open {
		f.lineEnd = len(s)
		if nl := strings.IndexByte(s[open:], '\n'); nl >= 0 {
			f.lineEnd = open + nl
		}
	}
	if f.sep < open+1 {
		f.sep = len(s)
		if i := strings.Index(s[open+1:], f.b.sep); i >= 0 {
			f.sep = open + 1 + i
		}
	}
	after := f.sep + len(f.b.sep)
	if after > f.lineEnd {
		return span{}, false
	}
	if f.close < after {
		f.close = len(s)
		if i := nextUnescaped(s, ')', after); i >= 0 {
			f.close = i
		}
	}
	if f.close >= f.lineEnd {
		return span{}, false
	}
	return span{open: open, sep: f.sep, end: f.close}, true
}

// scanner indexes the marker positions of one string. Emphasis markers
// inside a link, relation or color span are not valid boundaries; a marker
// is inside a span when the nearest unescaped opener of that family before it
// starts a complete span that encloses it.
type scanner struct {
	s        string
	emphasis [len(emphasisMarkers)][]int
	spans    [len(brackets)][]span
}

func newScanner(s string) *scanner {
	sc := &scanner{s: s}
	var (
		finders [len(brackets)]*spanFinder
		last    [len(brackets)]span
		lastOK  [len(brackets)]bool
	)
	for k, b := range brackets {
		finders[k] = newSpanFinder(s, b)
	}
	for i := 0; i < len(s); i++ {
		if escaped(s, i) {
			continue
		}
		if k := bracketIndex(s[i]); k >= 0 {
			last[k], lastOK[k] = finders[k].find(i)
			if lastOK[k] {
				sc.spans[k] = append(sc.spans[k], last[k])
			}
			continue
		}
		m := emphasisIndex(s[i])
		if m < 0 {
			continue
		}
		inside := false
		for k := range brackets {
			if lastOK[k] && last[k].open < i && i < last[k].end {
				inside = true
				break
			}
		}
		if !inside {
			sc.emphasis[m] = append(sc.emphasis[m], i)
		}
	}
	return sc
}

// nextValid returns the first valid position of emphasis marker c at or
// after from, or -1.
func (sc *scanner) nextValid(c byte, from int) int {
	m := emphasisIndex(c)
	if m < 0 {
		return notFound
	}
	pos := sc.emphasis[m]
	if k := sort.SearchInts(pos, from); k < len(pos) {
		return pos[k]
	}
	return notFound
}

// spanAt returns the complete span whose opener sits at open.
func (sc *scanner) spanAt(open int) (span, bool) {
	if open < 0 || open >= len(sc.s) {
		return span{}, false
	}
	k := bracketIndex(sc.s[open])
	if k < 0 {
		return span{}, false
	}
	spans := sc.spans[k]
	i := sort.Search(len(spans), func(i int) bool { return spans[i].open >= open })
	if i < len(spans) && spans[i].open == open {
		return spans[i], true
	}
	return span{}, false
}

// nextMarkerStart returns the earliest index >= from where a marker with a
// reachable closer begins, or len(s) when no markup remains.
func (sc *scanner) nextMarkerStart(from int) int {
	best := len(sc.s)
	if from >= best {
		return best
	}
	for _, pos := range sc.emphasis {
		// An emphasis marker needs a later valid marker to close it.
		if k := sort.SearchInts(pos, from); k+1 < len(pos) && pos[k] < best {
			best = pos[k]
		}
	}
	for _, spans := range sc.spans {
		i := sort.Search(len(spans), func(i int) bool { return spans[i].open >= from })
		if i < len(spans) && spans[i].open < best {
			best = spans[i].open
		}
	}
	return best
}
