package bridge

import (
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"
)

// SourceKind discriminates the ParamSource variants.
type SourceKind int

const (
	KindInput SourceKind = iota
	KindMenu
	KindContext
	KindList
	KindFile
)

func (k SourceKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindMenu:
		return "menu"
	case KindContext:
		return "context"
	case KindList:
		return "list"
	case KindFile:
		return "file"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// ParamSource describes where a parameter's value comes from. The set of
// variants is closed: *Input, *Menu, *FromContext, *List and *File.
type ParamSource interface {
	Kind() SourceKind
	Common() *Base
	sealed()
}

// Validator checks a parameter value before schema coercion. A non-nil error
// rejects the value.
type Validator func(value any) error

// ErrRejected is the cause reported when a Predicate returns false.
var ErrRejected = errors.New("rejected by validator")

// Predicate adapts a boolean check to a Validator.
func Predicate(fn func(value any) bool) Validator {
	return func(value any) error {
		if !fn(value) {
			return ErrRejected
		}
		return nil
	}
}

// Base holds the fields shared by every ParamSource variant.
type Base struct {
	// Default is a static value, or a func() any producer called at
	// invocation time. A nil Default means no default.
	Default     any
	Description string
	Validator   Validator
}

// Common returns the shared fields.
func (b *Base) Common() *Base { return b }

func (*Base) sealed() {}

// DefaultValue resolves the default, calling a producer if there is one.
func (b *Base) DefaultValue() (any, bool) {
	switch d := b.Default.(type) {
	case nil:
		return nil, false
	case func() any:
		return d(), true
	default:
		return d, true
	}
}

// HasDefault reports whether a default is set.
func (b *Base) HasDefault() bool { return b.Default != nil }

// SourceOption sets a shared field on a new ParamSource.
type SourceOption func(*Base)

// WithDefault sets a static default or a func() any producer.
func WithDefault(v any) SourceOption {
	return func(b *Base) { b.Default = v }
}

// WithDescription sets the parameter description.
func WithDescription(s string) SourceOption {
	return func(b *Base) { b.Description = s }
}

// WithValidator sets the custom validator.
func WithValidator(v Validator) SourceOption {
	return func(b *Base) { b.Validator = v }
}

func applySourceOptions(b *Base, opts []SourceOption) {
	for _, opt := range opts {
		opt(b)
	}
}

// Input reads a free-form value.
type Input struct {
	Base
	Placeholder string
}

// NewInput creates an Input source.
func NewInput(opts ...SourceOption) *Input {
	s := &Input{}
	applySourceOptions(&s.Base, opts)
	return s
}

func (*Input) Kind() SourceKind { return KindInput }

// Option is one labelled choice of a Menu.
type Option struct {
	Label string
	Value any
}

// Choices builds options labelled with the printed form of each value.
func Choices(values ...any) []Option {
	opts := make([]Option, len(values))
	for i, v := range values {
		opts[i] = Option{Label: fmt.Sprint(v), Value: v}
	}
	return opts
}

// Enum is implemented by types whose parameters are chosen from a fixed set.
// Parameters of such types resolve to a Menu.
type Enum interface {
	EnumOptions() []Option
}

// Menu picks one value from an ordered list of options.
type Menu struct {
	Base
	Options []Option
}

// NewMenu creates a Menu source.
func NewMenu(options []Option, opts ...SourceOption) *Menu {
	s := &Menu{Options: options}
	applySourceOptions(&s.Base, opts)
	return s
}

func (*Menu) Kind() SourceKind { return KindMenu }

// Index returns the position of the option holding value, or -1.
func (m *Menu) Index(value any) int {
	for i, o := range m.Options {
		if reflect.DeepEqual(o.Value, value) {
			return i
		}
	}
	return -1
}

// Values returns the option values in order.
func (m *Menu) Values() []any {
	values := make([]any, len(m.Options))
	for i, o := range m.Options {
		values[i] = o.Value
	}
	return values
}

// FromContext reads the value stored under Key in the bridge context.
// It is never selected automatically.
type FromContext struct {
	Base
	Key string
}

// NewContextSource creates a FromContext source.
func NewContextSource(key string, opts ...SourceOption) *FromContext {
	s := &FromContext{Key: key}
	applySourceOptions(&s.Base, opts)
	return s
}

func (*FromContext) Kind() SourceKind { return KindContext }

// List reads a separator-delimited sequence.
type List struct {
	Base
	ElementType reflect.Type
	Separator   string
}

// NewList creates a List source. An empty separator means ",".
func NewList(elem reflect.Type, separator string, opts ...SourceOption) *List {
	if separator == "" {
		separator = ","
	}
	s := &List{ElementType: elem, Separator: separator}
	applySourceOptions(&s.Base, opts)
	return s
}

func (*List) Kind() SourceKind { return KindList }

// Split breaks raw into trimmed items.
func (l *List) Split(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	sep := l.Separator
	if sep == "" {
		sep = ","
	}
	parts := strings.Split(raw, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// FileLike is implemented by parameter types that name a file. Parameters of
// such types resolve to a File source with the returned mode.
type FileLike interface {
	FileMode() string
}

// TextFile is a parameter type holding the contents of a file read by path.
type TextFile string

func (TextFile) FileMode() string { return "r" }

// OutputPath is a parameter type holding a path the command writes to.
type OutputPath string

func (OutputPath) FileMode() string { return "w" }

// File reads a parameter from a file.
type File struct {
	Base
	Mode string
}

// NewFile creates a File source. An empty mode means "r".
func NewFile(mode string, opts ...SourceOption) *File {
	if mode == "" {
		mode = "r"
	}
	s := &File{Mode: mode}
	applySourceOptions(&s.Base, opts)
	return s
}

func (*File) Kind() SourceKind { return KindFile }

// Writes reports whether the mode opens the file for writing or appending.
func (f *File) Writes() bool {
	return strings.ContainsAny(f.Mode, "wa")
}

// Load resolves a path to the parameter value. Read modes return the file
// contents, as []byte when the mode contains "b". Write modes return the path.
func (f *File) Load(path string) (any, error) {
	if f.Writes() {
		return path, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.Contains(f.Mode, "b") {
		return data, nil
	}
	return string(data), nil
}
