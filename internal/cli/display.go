package cli

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"bridges/internal/output"
	"bridges/pkg/bridge"
)

// Results longer than maxListItems show only the first truncatedItems.
const (
	maxListItems   = 10
	truncatedItems = 5
)

// Display renders results, help and registry views.
type Display struct {
	printer *output.Printer
}

// NewDisplay creates a Display on printer.
func NewDisplay(printer *output.Printer) *Display {
	return &Display{printer: printer}
}

// Banner prints the shell banner.
func (d *Display) Banner(name, description string) {
	body := d.printer.Style(output.SemanticCommand, name)
	if description != "" {
		body += "\n" + d.printer.Style(output.SemanticMuted, description)
	}
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(1, 2)
	d.printer.Println(box.Render(body))
	d.printer.Println("")
}

// Result prints a command result.
func (d *Display) Result(result any) {
	v := reflect.ValueOf(result)
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			v = reflect.Value{}
			break
		}
		v = v.Elem()
	}
	if !v.IsValid() {
		d.printer.Println(d.printer.Style(output.SemanticMuted, "Function completed (no output)"))
		return
	}

	label := d.printer.Style(output.SemanticSuccess, "Result:")
	switch v.Kind() {
	case reflect.Map:
		d.resultMap(v)
	case reflect.Slice, reflect.Array:
		if b, ok := result.([]byte); ok {
			d.printer.Println(label + " " + string(b))
			return
		}
		d.resultList(v)
	case reflect.Struct:
		data, err := yaml.Marshal(v.Interface())
		if err != nil {
			d.printer.Println(fmt.Sprintf("%s %+v", label, v.Interface()))
			return
		}
		d.printer.Println(label)
		d.printer.Println(strings.TrimRight(string(data), "\n"))
	default:
		d.printer.Println(fmt.Sprintf("%s %v", label, v.Interface()))
	}
}

func (d *Display) resultMap(v reflect.Value) {
	rows := make([][]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		rows = append(rows, []string{fmt.Sprint(iter.Key().Interface()), fmt.Sprint(iter.Value().Interface())})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i][0] < rows[j][0] })
	for _, row := range rows {
		row[0] = d.printer.Style(output.SemanticKey, row[0])
	}

	d.printer.Println(d.printer.Style(output.SemanticSuccess, "Result"))
	d.printer.Println(d.table([]string{"Key", "Value"}, rows))
}

func (d *Display) resultList(v reflect.Value) {
	label := d.printer.Style(output.SemanticSuccess, "Result:")
	n := v.Len()
	shown := n
	if n > maxListItems {
		shown = truncatedItems
		d.printer.Println(fmt.Sprintf("%s %d items", label, n))
	} else {
		d.printer.Println(label)
	}
	for i := 0; i < shown; i++ {
		d.printer.Println(fmt.Sprintf("  %d: %v", i, v.Index(i).Interface()))
	}
	if shown < n {
		d.printer.Println(fmt.Sprintf("  ... and %d more items", n-shown))
	}
}

// Error prints a failed invocation.
func (d *Display) Error(err error) {
	d.printer.Error(fmt.Sprintf("Error executing function: %v", err))
}

// Help prints the built-in commands.
func (d *Display) Help() {
	rows := [][]string{
		{"help", "Show this help message"},
		{"list", "List all available functions"},
		{"info <function>", "Show detailed function information"},
		{"context", "Show the current context"},
		{"history", "Show the context history"},
		{"inputs", "Show the lines entered so far"},
		{"restore <index>", "Restore a context snapshot"},
		{"instances", "List stateful instances"},
		{"quit, exit, q", "Exit the CLI"},
	}
	for _, row := range rows {
		row[0] = d.printer.Style(output.SemanticCommand, row[0])
	}

	d.printer.Println(d.printer.Style(output.SemanticBold, "Available Commands:"))
	d.printer.Println(d.table(nil, rows))
	d.printer.Println("")
	d.printer.Println(d.printer.Style(output.SemanticBold, "Function Execution:"))
	d.printer.Println("  Type the function name to execute it interactively.")
	d.printer.Println("  Arguments given as key=value (or in parameter order) skip their prompts.")
}

// List prints every registered command.
func (d *Display) List(b *bridge.Bridge) {
	commands := b.Commands()
	if len(commands) == 0 {
		d.printer.Warning("No functions registered.")
		return
	}

	rows := make([][]string, 0, len(commands))
	for _, cmd := range commands {
		description := cmd.Description()
		if description == "" {
			description = "No description"
		}
		rows = append(rows, []string{
			d.printer.Style(output.SemanticCommand, cmd.Name()),
			description,
			fmt.Sprintf("%d params", len(cmd.Params())),
		})
	}

	d.printer.Println(d.printer.Style(output.SemanticInfo, "Available Functions in "+b.Name()))
	d.printer.Println(d.table([]string{"Function", "Description", "Parameters"}, rows))
}

// Info prints the description and parameters of one command. The
// description is rendered as markdown.
func (d *Display) Info(b *bridge.Bridge, name string) error {
	cmd, ok := findCommand(b, name)
	if !ok {
		return fmt.Errorf("%w: %s", bridge.ErrUnknownCommand, name)
	}

	d.printer.Markdown(fmt.Sprintf("# %s\n\n%s\n", cmd.Name(), cmd.Description()))

	params := cmd.Parameters()
	if len(params) == 0 {
		d.printer.Println(d.printer.Style(output.SemanticMuted, "No parameters"))
		return nil
	}

	rows := make([][]string, 0, len(params))
	for _, p := range params {
		def := ""
		switch {
		case p.Computed:
			def = "(computed)"
		case !p.Required:
			def = fmt.Sprint(p.Default)
		}
		rows = append(rows, []string{
			d.printer.Style(output.SemanticParam, p.Name),
			p.Source.Kind().String(),
			p.Type,
			strconv.FormatBool(p.Required),
			def,
			p.Source.Common().Description,
		})
	}
	d.printer.Println(d.table([]string{"Parameter", "Source", "Type", "Required", "Default", "Description"}, rows))
	return nil
}

// Context prints the current context entries.
func (d *Display) Context(b *bridge.Bridge) {
	keys := b.ContextKeys()
	if len(keys) == 0 {
		d.printer.Println(d.printer.Style(output.SemanticMuted, "Context is empty"))
		return
	}
	for _, key := range keys {
		v, _ := b.ContextValue(key)
		d.printer.KeyValue(key, v)
	}
}

// History prints one row per snapshot, oldest first.
func (d *Display) History(b *bridge.Bridge) {
	history := b.ContextHistory()
	rows := make([][]string, 0, len(history))
	for i, snap := range history {
		rows = append(rows, []string{
			strconv.Itoa(i),
			snap.ID,
			snap.Created.Format("15:04:05"),
			strings.Join(snap.Keys(), ", "),
		})
	}
	d.printer.Println(d.table([]string{"#", "ID", "Created", "Keys"}, rows))
}

// Inputs prints the shell input lines, oldest first.
func (d *Display) Inputs(lines []string) {
	if len(lines) == 0 {
		d.printer.Println(d.printer.Style(output.SemanticMuted, "No input yet"))
		return
	}
	for i, line := range lines {
		d.printer.Println(fmt.Sprintf("%3d  %s", i+1, line))
	}
}

// Instances prints the stateful instances grouped by class.
func (d *Display) Instances(b *bridge.Bridge) {
	instances := b.ListAllInstances()
	if len(instances) == 0 {
		d.printer.Println(d.printer.Style(output.SemanticMuted, "No instances"))
		return
	}

	classes := make([]string, 0, len(instances))
	for class := range instances {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	for _, class := range classes {
		d.printer.KeyValue(class, strings.Join(instances[class], ", "))
	}
}

func (d *Display) table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Rows(rows...)
	if len(headers) > 0 {
		t = t.Headers(headers...)
	}
	return t.String()
}
