package output

import (
	"os"
	"sync/atomic"

	"github.com/muesli/termenv"
)

var global atomic.Pointer[Printer]

func init() {
	global.Store(NewPrinter())
}

// SetGlobalPrinter sets the printer used by bridges that are not given one.
func SetGlobalPrinter(p *Printer) { global.Store(p) }

// GetGlobalPrinter returns the global printer.
func GetGlobalPrinter() *Printer { return global.Load() }

// ConfigureGlobal replaces the global printer with one built from options.
func ConfigureGlobal(options ...Option) { global.Store(NewPrinter(options...)) }

// SupportsColor reports whether stdout can render colors. NO_COLOR and dumb
// terminals disable color.
func SupportsColor() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return termenv.NewOutput(os.Stdout).Profile != termenv.Ascii
}

// HasDarkBackground reports whether the terminal background is dark.
func HasDarkBackground() bool {
	return termenv.HasDarkBackground()
}
