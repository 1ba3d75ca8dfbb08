package output

import "io"

// Option configures a Printer.
type Option func(*Printer)

// WithStyles styles output with provider. A nil or unavailable provider
// leaves the printer plain.
func WithStyles(provider StyleProvider) Option {
	return func(p *Printer) {
		if provider != nil && provider.IsAvailable() {
			p.styles = provider
		}
	}
}

// WithWriter sends output to w instead of os.Stdout.
func WithWriter(w io.Writer) Option {
	return func(p *Printer) {
		if w != nil {
			p.w = w
		}
	}
}

// PlainText ignores any style provider.
func PlainText() Option {
	return func(p *Printer) { p.plain = true }
}

// JSON writes every line as a {"type","message"} JSON object.
func JSON() Option {
	return func(p *Printer) { p.json = true }
}

// TestMode makes output deterministic: plain text, no terminal probing.
func TestMode() Option {
	return func(p *Printer) {
		p.plain = true
		p.styles = nil
	}
}

// Silent discards all output.
func Silent() Option {
	return func(p *Printer) { p.silent = true }
}

// WithPrefix prepends prefix to every write.
func WithPrefix(prefix string) Option {
	return func(p *Printer) { p.prefix = prefix }
}
