// Package editor holds the text buffers edited by the front-ends.
package editor

import (
	"strings"
	"sync"
)

// Cursor is a zero-based position; Line may equal LineCount to address the
// position after the last line.
type Cursor struct {
	Line int
	Ch   int
}

// Editor is the subset of a code editor the runner and front-ends rely on.
type Editor interface {
	Value() string
	SetValue(value string)
	LineCount() int
	Cursor() Cursor
	SetCursor(c Cursor)
	MoveToEnd()
	IsClean() bool
	MarkClean()
	Mode() string
	SetMode(mode string)
}

// Buffer is an in-memory Editor. Every SetValue starts a new generation and
// the buffer is clean while the generation equals the one MarkClean saw.
type Buffer struct {
	mu         sync.RWMutex
	value      string
	cursor     Cursor
	mode       string
	generation int
	clean      int
}

var _ Editor = (*Buffer)(nil)

func NewBuffer(value, mode string) *Buffer {
	return &Buffer{value: value, mode: mode}
}

func (b *Buffer) Value() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

func (b *Buffer) SetValue(value string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.value = value
	b.generation++
	b.cursor = b.clampLocked(b.cursor)
}

// LineCount counts lines the way an editor shows them: an empty buffer has
// one line and a trailing newline opens another.
func (b *Buffer) LineCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return strings.Count(b.value, "\n") + 1
}

func (b *Buffer) Cursor() Cursor {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cursor
}

func (b *Buffer) SetCursor(c Cursor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = b.clampLocked(c)
}

// MoveToEnd places the cursor at column zero past the last line.
func (b *Buffer) MoveToEnd() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cursor = Cursor{Line: strings.Count(b.value, "\n") + 1}
}

func (b *Buffer) IsClean() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.generation == b.clean
}

func (b *Buffer) MarkClean() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.clean = b.generation
}

func (b *Buffer) Mode() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mode
}

func (b *Buffer) SetMode(mode string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.mode = mode
}

func (b *Buffer) clampLocked(c Cursor) Cursor {
	lines := strings.Split(b.value, "\n")
	if c.Line < 0 {
		c.Line = 0
	}
	if c.Line >= len(lines) {
		return Cursor{Line: len(lines)}
	}
	if c.Ch < 0 {
		c.Ch = 0
	}
	if n := len([]rune(lines[c.Line])); c.Ch > n {
		c.Ch = n
	}
	return c
}
