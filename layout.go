package main

import (
	"strings"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
)

// VisualLine is one rendered row: a byte span into the TextBuffer. Spans
// include their terminating line feed, so the ordered sequence of spans
// always partitions the buffer exactly, with no gaps or overlaps.
type VisualLine struct {
	Start int
	End   int
}

// layoutEngine derives the visual line sequence from a TextBuffer. The
// result is cached keyed by (buffer generation, viewport width, wrap mode)
// and recomputed lazily:
//
//   - Appends only reprocess the trailing partial physical line, in both
//     modes. Visual lines before it are never touched.
//   - A width change in wrap mode invalidates everything, since every
//     breakpoint depends on the width. This is O(buffer size) and is the
//     accepted cost of resizing while viewing a large buffer.
//   - No-wrap layout ignores the width entirely.
type layoutEngine struct {
	wrap   bool
	width  int
	gen    uint64
	synced bool

	lines []VisualLine

	// physStart is the byte offset where the final physical line begins, or
	// the buffer length if the buffer ends with a line feed. Appended bytes
	// can only affect visual lines at or after this offset.
	physStart int
}

func newLayoutEngine(wrap bool) *layoutEngine {
	return &layoutEngine{wrap: wrap}
}

// Sync brings the visual line sequence up to date with the buffer and
// viewport width.
func (l *layoutEngine) Sync(buf *TextBuffer, width int) {
	if width < 1 {
		width = 1
	}

	full := !l.synced || (l.wrap && width != l.width)
	if !full && buf.Generation() == l.gen {
		l.width = width
		return
	}

	from := l.physStart
	if full {
		l.lines = l.lines[:0]
		from = 0
	} else {
		// Drop the visual lines of the trailing partial physical line; they
		// are re-derived together with the new bytes.
		keep := len(l.lines)
		for keep > 0 && l.lines[keep-1].Start >= from {
			keep--
		}
		l.lines = l.lines[:keep]
	}

	l.width = width
	l.gen = buf.Generation()
	l.synced = true
	l.scan(buf, from)
}

// scan derives visual lines for buffer content in [from, len).
func (l *layoutEngine) scan(buf *TextBuffer, from int) {
	data := []byte(nil)
	if buf.Len() > 0 {
		data = buf.data
	}

	ls := from
	for ls < len(data) {
		le := ls
		for le < len(data) && data[le] != '\n' {
			le++
		}
		ce := le // content end, excluding the line feed
		if le < len(data) {
			le++ // span end, including the line feed
		}

		if l.wrap {
			l.wrapPhysical(data, ls, ce, le)
		} else {
			l.lines = append(l.lines, VisualLine{Start: ls, End: le})
		}

		if le == ce {
			// No trailing line feed: this is the final, partial line.
			l.physStart = ls
			return
		}
		ls = le
	}
	l.physStart = len(data)
}

// wrapPhysical splits one physical line [ls, ce) into visual lines of at most
// l.width display columns, breaking after the widest fitting space when one
// exists and hard-breaking otherwise. The final span extends to le so the
// line feed stays inside the partition.
func (l *layoutEngine) wrapPhysical(data []byte, ls, ce, le int) {
	segStart := ls
	w := 0
	lastBreak := -1
	wAtBreak := 0

	for i := ls; i < ce; {
		r, size := utf8.DecodeRune(data[i:])
		rw := runewidth.RuneWidth(r)

		if w+rw > l.width && w > 0 {
			if lastBreak > segStart {
				l.lines = append(l.lines, VisualLine{Start: segStart, End: lastBreak})
				w -= wAtBreak
				segStart = lastBreak
			} else {
				l.lines = append(l.lines, VisualLine{Start: segStart, End: i})
				w = 0
				segStart = i
			}
			lastBreak = -1
			wAtBreak = 0
		}

		w += rw
		if r == ' ' {
			lastBreak = i + size
			wAtBreak = w
		}
		i += size
	}

	l.lines = append(l.lines, VisualLine{Start: segStart, End: le})
}

// Lines returns the current visual line sequence. The slice is owned by the
// engine and valid until the next Sync.
func (l *layoutEngine) Lines() []VisualLine {
	return l.lines
}

func (l *layoutEngine) LineCount() int {
	return len(l.lines)
}

// lineText extracts the renderable text of a visual line: the raw span with
// the line terminator stripped.
func lineText(buf *TextBuffer, vl VisualLine) string {
	s := buf.Slice(vl.Start, vl.End)
	s = strings.TrimSuffix(s, "\n")
	return strings.TrimSuffix(s, "\r")
}
