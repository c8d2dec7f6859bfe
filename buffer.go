package main

// TextBuffer holds the authoritative content: an append-only byte sequence
// plus a generation counter that advances on every append. Layout caches key
// off the generation to detect new content.
//
// All mutation happens on the Bubble Tea update goroutine; the script reader
// hands chunks over via a channel and never touches the buffer itself.
type TextBuffer struct {
	data []byte
	gen  uint64
}

func newTextBuffer(initial string) *TextBuffer {
	b := &TextBuffer{}
	if initial != "" {
		b.Append([]byte(initial))
	}
	return b
}

// Append adds bytes to the end of the buffer and advances the generation.
// Appending nothing is a no-op.
func (b *TextBuffer) Append(p []byte) {
	if len(p) == 0 {
		return
	}
	b.data = append(b.data, p...)
	b.gen++
}

// AppendString is Append for string content.
func (b *TextBuffer) AppendString(s string) {
	b.Append([]byte(s))
}

func (b *TextBuffer) Len() int {
	return len(b.data)
}

func (b *TextBuffer) Generation() uint64 {
	return b.gen
}

// Slice returns the buffer content in [start, end). Bounds are the caller's
// responsibility; VisualLine spans are always valid.
func (b *TextBuffer) Slice(start, end int) string {
	return string(b.data[start:end])
}

func (b *TextBuffer) String() string {
	return string(b.data)
}
