package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ParseValue converts raw user input to a value suited to the schema type.
// Numbers and booleans are parsed; untyped parameters are inferred; anything
// else stays a string and is coerced by the command schema.
func ParseValue(raw string, ty cty.Type) (any, error) {
	switch {
	case ty == cty.Bool:
		return parseBool(raw)
	case ty == cty.Number:
		return parseNumber(raw)
	case ty == cty.DynamicPseudoType:
		return inferValue(raw), nil
	case ty.IsListType() || ty.IsSetType():
		return ParseList(strings.Split(raw, ","), ty.ElementType())
	default:
		return raw, nil
	}
}

// ParseList parses every item with the element type.
func ParseList(items []string, elem cty.Type) ([]any, error) {
	values := make([]any, len(items))
	for i, item := range items {
		v, err := ParseValue(strings.TrimSpace(item), elem)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		values[i] = v
	}
	return values, nil
}

func parseBool(raw string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "on":
		return true, nil
	case "false", "0", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean value '%s' (use true/false, 1/0, yes/no, on/off)", raw)
	}
}

func parseNumber(raw string) (any, error) {
	s := strings.TrimSpace(raw)
	if i, err := strconv.Atoi(s); err == nil {
		return i, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number '%s'", raw)
	}
	return f, nil
}

func inferValue(raw string) any {
	s := strings.TrimSpace(raw)
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return raw
}

// ParseArgs splits "key=value" arguments. Arguments without "=" are
// returned in order as positional values.
func ParseArgs(args []string) (named map[string]string, positional []string) {
	named = make(map[string]string)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			positional = append(positional, arg)
			continue
		}
		named[key] = value
	}
	return named, positional
}
