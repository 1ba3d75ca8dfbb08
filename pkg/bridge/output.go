package bridge

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// OutputDestination delivers a command result.
type OutputDestination interface {
	Send(value any, b *Bridge) error
}

// Display prints the result through the bridge printer. Format may contain
// "{value}"; an empty Format prints the value alone.
type Display struct {
	Format string
}

// Render applies the format to value.
func (d Display) Render(value any) string {
	format := d.Format
	if format == "" {
		format = "{value}"
	}
	return strings.ReplaceAll(format, "{value}", fmt.Sprint(value))
}

// Send prints the rendered value.
func (d Display) Send(value any, b *Bridge) error {
	b.Printer().Println(d.Render(value))
	return nil
}

// ToContext stores the result in the bridge context under Key.
type ToContext struct {
	Key string
}

// Send stores value in the context, recording a snapshot.
func (c ToContext) Send(value any, b *Bridge) error {
	if c.Key == "" {
		return fmt.Errorf("context output: empty key")
	}
	b.UpdateContext(c.Key, value)
	return nil
}

// Encodings understood by ToFile.
const (
	EncodingText = "text"
	EncodingJSON = "json"
	EncodingYAML = "yaml"
)

// ToFile writes the result to Path, truncating unless Append is set.
type ToFile struct {
	Path     string
	Append   bool
	Encoding string
}

// Send encodes value and writes it to the file.
func (f ToFile) Send(value any, _ *Bridge) error {
	data, err := f.encode(value)
	if err != nil {
		return fmt.Errorf("encode result for %s: %w", f.Path, err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if f.Append {
		flags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	file, err := os.OpenFile(f.Path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.Path, err)
	}
	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		return fmt.Errorf("write %s: %w", f.Path, err)
	}
	return file.Close()
}

func (f ToFile) encode(value any) ([]byte, error) {
	switch f.Encoding {
	case "", EncodingText:
		s := fmt.Sprint(value)
		if !strings.HasSuffix(s, "\n") {
			s += "\n"
		}
		return []byte(s), nil
	case EncodingJSON:
		data, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case EncodingYAML:
		return yaml.Marshal(value)
	default:
		return nil, fmt.Errorf("unknown encoding %q", f.Encoding)
	}
}
