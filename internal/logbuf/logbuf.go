// Package logbuf implements the bounded ring buffer that captures a
// process's stdout/stderr as discrete lines, reassembling partial lines
// across arbitrary chunk boundaries.
package logbuf

import (
	"bytes"
	"time"
)

// Capacity is the maximum number of committed lines a Buffer retains.
const Capacity = 1000

// Line is one committed line of captured output.
type Line struct {
	Text      []byte
	Timestamp time.Time
}

// Buffer is a ring of up to Capacity committed Lines plus a partial
// accumulator for the not-yet-terminated tail line. The zero value is a
// ready-to-use empty Buffer.
type Buffer struct {
	lines   []Line // logical order, oldest first, len <= Capacity
	partial []byte
}

// New returns an empty Buffer.
func New() *Buffer {
	return &Buffer{lines: make([]Line, 0, Capacity)}
}

// Append consumes a chunk of bytes and commits zero or more lines. Bytes
// after the last newline, if any, are retained in the partial accumulator.
// now is stamped on every line committed by this call.
func (b *Buffer) Append(chunk []byte, now time.Time) {
	start := 0
	for {
		i := bytes.IndexByte(chunk[start:], '\n')
		if i < 0 {
			break
		}
		end := start + i
		var text []byte
		if len(b.partial) > 0 {
			text = make([]byte, 0, len(b.partial)+end-start)
			text = append(text, b.partial...)
			text = append(text, chunk[start:end]...)
			b.partial = nil
		} else {
			text = append([]byte(nil), chunk[start:end]...)
		}
		b.commit(Line{Text: text, Timestamp: now})
		start = end + 1
	}
	if start < len(chunk) {
		b.partial = append(b.partial, chunk[start:]...)
	}
}

// commit appends a single fully-formed line, dropping the oldest when full.
func (b *Buffer) commit(l Line) {
	if len(b.lines) >= Capacity {
		copy(b.lines, b.lines[1:])
		b.lines = b.lines[:len(b.lines)-1]
	}
	b.lines = append(b.lines, l)
}

// Line returns the line at logical index i, or false if i is out of range.
func (b *Buffer) Line(i int) (Line, bool) {
	if i < 0 || i >= len(b.lines) {
		return Line{}, false
	}
	return b.lines[i], true
}

// Len returns the number of committed lines currently visible.
func (b *Buffer) Len() int { return len(b.lines) }

// TextRange concatenates lines [start, min(end, Len())), each followed by a
// trailing newline, into a freshly allocated byte slice.
func (b *Buffer) TextRange(start, end int) []byte {
	if start < 0 {
		start = 0
	}
	if end > len(b.lines) {
		end = len(b.lines)
	}
	if start >= end {
		return []byte{}
	}
	size := 0
	for _, l := range b.lines[start:end] {
		size += len(l.Text) + 1
	}
	out := make([]byte, 0, size)
	for _, l := range b.lines[start:end] {
		out = append(out, l.Text...)
		out = append(out, '\n')
	}
	return out
}

// AllText is equivalent to TextRange(0, Len()).
func (b *Buffer) AllText() []byte { return b.TextRange(0, len(b.lines)) }

// Clear drops all committed lines and any partial bytes.
func (b *Buffer) Clear() {
	b.lines = b.lines[:0]
	b.partial = nil
}

// Iterator lazily walks committed lines forward from a fixed starting
// index. It is a snapshot: lines committed after the iterator was created
// are not observed, and it is not restartable in place.
type Iterator struct {
	lines []Line
	pos   int
}

// Iter returns an iterator over all currently committed lines.
func (b *Buffer) Iter() *Iterator { return b.IterFrom(0) }

// IterFrom returns an iterator starting at logical index i.
func (b *Buffer) IterFrom(i int) *Iterator {
	if i < 0 {
		i = 0
	}
	if i > len(b.lines) {
		i = len(b.lines)
	}
	snap := make([]Line, len(b.lines)-i)
	copy(snap, b.lines[i:])
	return &Iterator{lines: snap}
}

// Next returns the next line and true, or the zero Line and false when the
// iterator is exhausted.
func (it *Iterator) Next() (Line, bool) {
	if it.pos >= len(it.lines) {
		return Line{}, false
	}
	l := it.lines[it.pos]
	it.pos++
	return l, true
}
