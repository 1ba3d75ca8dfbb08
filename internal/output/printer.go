package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Printer writes semantic output lines. It is safe for concurrent use.
type Printer struct {
	mu     sync.Mutex
	w      io.Writer
	styles StyleProvider
	plain  bool
	json   bool
	silent bool
	prefix string
	md     *MarkdownRenderer
}

// NewPrinter creates a Printer writing to os.Stdout unless configured
// otherwise.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{w: os.Stdout}
	for _, opt := range options {
		opt(p)
	}
	return p
}

// Print writes text as-is.
func (p *Printer) Print(text string) { p.emit(SemanticPlain, text, false) }

// Printf writes formatted text as-is.
func (p *Printer) Printf(format string, args ...any) {
	p.emit(SemanticPlain, fmt.Sprintf(format, args...), false)
}

// Println writes text followed by a newline.
func (p *Printer) Println(text string) { p.emit(SemanticPlain, text, true) }

func (p *Printer) Info(text string)    { p.emit(SemanticInfo, text, true) }
func (p *Printer) Success(text string) { p.emit(SemanticSuccess, text, true) }
func (p *Printer) Warning(text string) { p.emit(SemanticWarning, text, true) }
func (p *Printer) Error(text string)   { p.emit(SemanticError, text, true) }

// KeyValue writes one "key: value" line with the key styled.
func (p *Printer) KeyValue(key string, value any) {
	p.emit(SemanticPlain, p.Style(SemanticKey, key)+": "+fmt.Sprint(value), true)
}

// Markdown renders doc with glamour when styled; otherwise the source is
// written unchanged.
func (p *Printer) Markdown(doc string) {
	if p.IsStylable() {
		if rendered, err := p.markdown().Render(doc); err == nil {
			p.emit(SemanticPlain, rendered, true)
			return
		}
	}
	p.emit(SemanticPlain, strings.TrimRight(doc, "\n"), true)
}

// Style returns text rendered for semantic without writing it.
func (p *Printer) Style(semantic SemanticType, text string) string {
	if !p.IsStylable() {
		return text
	}
	return p.styles.GetStyle(string(semantic)).Render(text)
}

// IsStylable reports whether a style provider is in effect.
func (p *Printer) IsStylable() bool {
	return !p.plain && !p.json && p.styles != nil && p.styles.IsAvailable()
}

// Writer returns the destination writer.
func (p *Printer) Writer() io.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.w
}

func (p *Printer) markdown() *MarkdownRenderer {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.md == nil {
		p.md = NewMarkdownRenderer(p.styles)
	}
	return p.md
}

type event struct {
	Type    SemanticType `json:"type"`
	Message string       `json:"message"`
}

func (p *Printer) emit(semantic SemanticType, text string, newline bool) {
	if p.silent {
		return
	}

	var line string
	switch {
	case p.json:
		data, err := json.Marshal(event{Type: semantic, Message: text})
		if err != nil {
			data = []byte(text)
		}
		line = string(data) + "\n"
	case p.IsStylable():
		line = p.styles.GetStyle(string(semantic)).Render(text)
	default:
		line = plainStyles.GetStyle(string(semantic)).Render(text)
	}
	if newline && !strings.HasSuffix(line, "\n") {
		line += "\n"
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = io.WriteString(p.w, p.prefix+line)
}
