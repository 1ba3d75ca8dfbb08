package output

import (
	"strings"
	"sync"

	"github.com/charmbracelet/x/ansi"
)

// CaptureBuffer collects printer output in tests. Reads through Text, Lines
// and Contains see the output with ANSI sequences stripped, so assertions
// hold whether or not a theme styled it.
type CaptureBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

// NewCaptureBuffer creates an empty capture buffer.
func NewCaptureBuffer() *CaptureBuffer {
	return &CaptureBuffer{}
}

func (c *CaptureBuffer) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

// String returns the raw captured bytes.
func (c *CaptureBuffer) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.String()
}

// Text returns the captured output without ANSI sequences.
func (c *CaptureBuffer) Text() string {
	return ansi.Strip(c.String())
}

// Lines returns Text split into lines, without the trailing empty line.
func (c *CaptureBuffer) Lines() []string {
	text := c.Text()
	if text == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}

// Contains reports whether Text contains s.
func (c *CaptureBuffer) Contains(s string) bool {
	return strings.Contains(c.Text(), s)
}

func (c *CaptureBuffer) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.buf.Reset()
}

// CaptureOutput runs fn against a test-mode printer and returns what it wrote.
func CaptureOutput(fn func(*Printer)) string {
	buf := NewCaptureBuffer()
	fn(NewPrinter(WithWriter(buf), TestMode()))
	return buf.Text()
}
