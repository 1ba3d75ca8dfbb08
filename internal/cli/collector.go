package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"

	"bridges/internal/output"
	"bridges/pkg/bridge"
)

// Collector gathers parameter values for a command, one prompt per
// parameter, following the parameter's source.
type Collector struct {
	printer  *output.Printer
	prompter Prompter
}

// NewCollector creates a Collector. A nil prompter never prompts: parameters
// not given as arguments are left to their defaults.
func NewCollector(printer *output.Printer, prompter Prompter) *Collector {
	return &Collector{printer: printer, prompter: prompter}
}

// Collect returns the input map for cmd. Values in preset are used as given
// (after parsing) and not prompted for. A parameter left out of the result
// falls back to its default inside the pipeline.
func (c *Collector) Collect(cmd *bridge.Command, preset map[string]string) (map[string]any, error) {
	params := make(map[string]any)

	for _, info := range cmd.Parameters() {
		if raw, ok := preset[info.Name]; ok {
			v, err := c.fromRaw(cmd, info, raw)
			if err != nil {
				return nil, fmt.Errorf("parameter '%s': %w", info.Name, err)
			}
			params[info.Name] = v
			continue
		}

		if src, ok := info.Source.(*bridge.FromContext); ok {
			c.collectContext(cmd, info, src, params)
			continue
		}
		if c.prompter == nil {
			continue
		}

		c.header(info)
		var err error
		switch src := info.Source.(type) {
		case *bridge.Menu:
			err = c.collectMenu(info, src, params)
		case *bridge.List:
			err = c.collectList(cmd, info, src, params)
		case *bridge.File:
			err = c.collectFile(info, src, params)
		default:
			err = c.collectInput(cmd, info, params)
		}
		if err != nil {
			return nil, err
		}
	}

	return params, nil
}

func (c *Collector) header(info bridge.ParamInfo) {
	line := c.printer.Style(output.SemanticParam, info.Name)
	if d := info.Source.Common().Description; d != "" {
		line += " - " + c.printer.Style(output.SemanticMuted, d)
	}
	c.printer.Println(line)
}

func (c *Collector) collectContext(cmd *bridge.Command, info bridge.ParamInfo, src *bridge.FromContext, params map[string]any) {
	label := fmt.Sprintf("%s (from context: '%s')", c.printer.Style(output.SemanticParam, info.Name), src.Key)
	if v, ok := cmd.Bridge().ContextValue(src.Key); ok {
		params[info.Name] = v
		c.printer.Println(label + " " + c.printer.Style(output.SemanticSuccess, fmt.Sprintf("Auto-filled: %v", v)))
		return
	}
	c.printer.Println(label + " " + c.printer.Style(output.SemanticMuted, "not set"))
}

func (c *Collector) collectMenu(info bridge.ParamInfo, src *bridge.Menu, params map[string]any) error {
	def := -1
	if info.Default != nil {
		def = src.Index(info.Default)
	}

	c.printer.Println(c.printer.Style(output.SemanticWarning, "Available options:"))
	for i, opt := range src.Options {
		marker := " "
		if i == def {
			marker = "→"
		}
		c.printer.Println(fmt.Sprintf("  %s %s: %s", marker, c.printer.Style(output.SemanticKey, strconv.Itoa(i)), opt.Label))
	}

	prompt := "Select option: "
	if def >= 0 {
		prompt = fmt.Sprintf("Select option [default: %d]: ", def)
	}
	for {
		raw, err := c.prompter.ReadLine(prompt)
		if err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" && def >= 0 {
			raw = strconv.Itoa(def)
		}
		index, err := strconv.Atoi(raw)
		if err != nil {
			c.printer.Error("Please enter a number.")
			continue
		}
		if index < 0 || index >= len(src.Options) {
			c.printer.Error("Invalid option.")
			continue
		}
		params[info.Name] = src.Options[index].Value
		c.printer.Success("Selected: " + src.Options[index].Label)
		return nil
	}
}

func (c *Collector) collectList(cmd *bridge.Command, info bridge.ParamInfo, src *bridge.List, params map[string]any) error {
	prompt := fmt.Sprintf("Enter values (separated by '%s')", src.Separator)
	if info.Default != nil {
		prompt += fmt.Sprintf(" [default: %v]", info.Default)
	}

	for {
		raw, err := c.prompter.ReadLine(prompt + ": ")
		if err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			if info.Default != nil {
				c.printer.Success(fmt.Sprintf("Using default: %v", info.Default))
			}
			return nil
		}
		items, err := ParseList(src.Split(raw), elementType(cmd, info.Name))
		if err != nil {
			c.printer.Error(fmt.Sprintf("Invalid values for %s: %v", info.Name, err))
			continue
		}
		params[info.Name] = items
		c.printer.Success(fmt.Sprintf("Added %d items", len(items)))
		return nil
	}
}

func (c *Collector) collectFile(info bridge.ParamInfo, src *bridge.File, params map[string]any) error {
	for {
		path, err := c.prompter.ReadLine("Enter file path (or type 'cancel' to skip): ")
		if err != nil {
			return err
		}
		path = strings.TrimSpace(path)
		if path == "" || strings.EqualFold(path, "cancel") {
			c.printer.Warning(fmt.Sprintf("Cancelled input for %s.", info.Name))
			return nil
		}

		v, err := src.Load(path)
		if err != nil {
			c.printer.Error(fmt.Sprintf("Error reading file: %v", err))
			continue
		}
		params[info.Name] = v
		if src.Writes() {
			c.printer.Success("File path set for writing: " + path)
		} else {
			c.printer.Success("File loaded: " + path)
		}
		return nil
	}
}

func (c *Collector) collectInput(cmd *bridge.Command, info bridge.ParamInfo, params map[string]any) error {
	prompt := "Enter value"
	if in, ok := info.Source.(*bridge.Input); ok && in.Placeholder != "" {
		prompt += " (" + in.Placeholder + ")"
	}
	if info.Default != nil && info.Default != "" {
		prompt += fmt.Sprintf(" [default: %v]", info.Default)
	}

	for {
		raw, err := c.prompter.ReadLine(prompt + ": ")
		if err != nil {
			return err
		}
		if raw == "" {
			if info.Default != nil && info.Default != "" {
				c.printer.Success(fmt.Sprintf("Using default: %v", info.Default))
			}
			return nil
		}
		v, err := ParseValue(raw, fieldType(cmd, info.Name))
		if err != nil {
			c.printer.Error(err.Error())
			continue
		}
		params[info.Name] = v
		c.printer.Success("Value set: " + raw)
		return nil
	}
}

// fromRaw converts a preset argument. Menu arguments may name an option by
// label or by value; file arguments are loaded.
func (c *Collector) fromRaw(cmd *bridge.Command, info bridge.ParamInfo, raw string) (any, error) {
	switch src := info.Source.(type) {
	case *bridge.Menu:
		for _, opt := range src.Options {
			if opt.Label == raw || fmt.Sprint(opt.Value) == raw {
				return opt.Value, nil
			}
		}
		return nil, fmt.Errorf("invalid option '%s'", raw)
	case *bridge.List:
		return ParseList(src.Split(raw), elementType(cmd, info.Name))
	case *bridge.File:
		return src.Load(raw)
	default:
		return ParseValue(raw, fieldType(cmd, info.Name))
	}
}

func fieldType(cmd *bridge.Command, name string) cty.Type {
	if f, ok := cmd.Schema().Field(name); ok {
		return f.Type
	}
	return cty.DynamicPseudoType
}

func elementType(cmd *bridge.Command, name string) cty.Type {
	ty := fieldType(cmd, name)
	if ty.IsListType() || ty.IsSetType() {
		return ty.ElementType()
	}
	return cty.DynamicPseudoType
}

// IsCancelled reports whether err is a user cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
