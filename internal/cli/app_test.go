package cli

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"

	"bridges/internal/output"
	"bridges/pkg/bridge"
)

func execute(t *testing.T, app *App, line string) (bool, error) {
	t.Helper()
	return app.Execute(context.Background(), strings.Fields(line))
}

func TestAppRunsCommandsWithArguments(t *testing.T) {
	b, buf := newDemoBridge(t)
	app := NewApp(b)

	_, err := execute(t, app, "add 2 3")
	require.NoError(t, err)
	assert.Equal(t, []string{"Sum: 5", "Result: 5"}, buf.Lines())

	buf.Reset()
	_, err = execute(t, app, "calculate b=4 a=10 op=-")
	require.NoError(t, err)
	assert.True(t, buf.Contains("Result: 6"))
}

func TestAppArgumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantErr error
		output  string
	}{
		{name: "unknown command", line: "nope", wantErr: bridge.ErrUnknownCommand, output: "Unknown command: nope"},
		{name: "too many arguments", line: "add 1 2 3", output: "too many arguments for add"},
		{name: "unknown parameter", line: "add c=1", output: "unknown parameter 'c' for add"},
		{name: "execution failure", line: "calculate a=1 b=0 op=/", wantErr: bridge.ErrExecution, output: "Error executing function"},
		{name: "validation failure", line: "add a=1", wantErr: bridge.ErrValidation, output: "Error executing function"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, buf := newDemoBridge(t)
			_, err := execute(t, NewApp(b), tt.line)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.True(t, buf.Contains(tt.output), buf.String())
		})
	}
}

func TestAppInteractiveCollection(t *testing.T) {
	b, buf := newDemoBridge(t)
	p := &fakePrompter{answers: []string{"Ada", "yes"}}
	app := NewApp(b, WithPrompter(p))

	_, err := execute(t, app, "greet")
	require.NoError(t, err)
	assert.True(t, buf.Contains("Executing: greet"))
	assert.True(t, buf.Contains("Result: Hello, Ada! 😃"))

	buf.Reset()
	_, err = execute(t, app, "add 1")
	require.NoError(t, err)
	assert.True(t, buf.Contains("Cancelled."))
}

func TestAppBuiltins(t *testing.T) {
	b, buf := newDemoBridge(t)
	app := NewApp(b)

	_, err := execute(t, app, "help")
	require.NoError(t, err)
	assert.True(t, buf.Contains("Available Commands:"))

	buf.Reset()
	_, err = execute(t, app, "ls")
	require.NoError(t, err)
	assert.True(t, buf.Contains("Available Functions in demo"))
	assert.True(t, buf.Contains("Counter.increment"))
	assert.True(t, buf.Contains("3 params"))

	buf.Reset()
	_, err = execute(t, app, "info calculate")
	require.NoError(t, err)
	assert.True(t, buf.Contains("# calculate"))
	assert.True(t, buf.Contains("menu"))
	assert.True(t, buf.Contains("Operator"))

	buf.Reset()
	_, err = execute(t, app, "info CALCULATE")
	require.NoError(t, err)
	assert.True(t, buf.Contains("# calculate"), "info matches names case-insensitively")

	_, err = execute(t, app, "info missing")
	assert.ErrorIs(t, err, bridge.ErrUnknownCommand)

	buf.Reset()
	_, err = execute(t, app, "info")
	require.NoError(t, err)
	assert.True(t, buf.Contains("Usage: info <function_name>"))
}

func TestAppContextCommands(t *testing.T) {
	b, buf := newDemoBridge(t)
	app := NewApp(b)

	_, err := execute(t, app, "context")
	require.NoError(t, err)
	assert.True(t, buf.Contains("Context is empty"))

	_, err = execute(t, app, "note text=hello")
	require.NoError(t, err)

	buf.Reset()
	_, err = execute(t, app, "ctx")
	require.NoError(t, err)
	assert.Equal(t, []string{"last_note: hello"}, buf.Lines())

	buf.Reset()
	_, err = execute(t, app, "history")
	require.NoError(t, err)
	assert.True(t, buf.Contains("last_note"))

	_, err = execute(t, app, "restore 0")
	require.NoError(t, err)
	assert.Empty(t, b.Context())
	assert.Len(t, b.ContextHistory(), 3)

	_, err = execute(t, app, "restore 99")
	assert.ErrorIs(t, err, bridge.ErrHistoryIndex)
}

func TestAppInstances(t *testing.T) {
	b, buf := newDemoBridge(t)
	app := NewApp(b)

	_, err := execute(t, app, "instances")
	require.NoError(t, err)
	assert.True(t, buf.Contains("No instances"))

	_, err = execute(t, app, "create_counter_instance start=3 instance_name=foo")
	require.NoError(t, err)

	buf.Reset()
	_, err = execute(t, app, "counter.increment amount=2 instance_name=foo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Result: 5"}, buf.Lines())

	buf.Reset()
	_, err = execute(t, app, "instances")
	require.NoError(t, err)
	assert.Equal(t, []string{"Counter: foo"}, buf.Lines())
}

func TestAppExit(t *testing.T) {
	b, _ := newDemoBridge(t)

	exit, err := execute(t, NewApp(b), "quit")
	require.NoError(t, err)
	assert.True(t, exit)

	exit, _ = execute(t, NewApp(b, WithPrompter(&fakePrompter{answers: []string{"n"}})), "exit")
	assert.False(t, exit)

	exit, _ = execute(t, NewApp(b, WithPrompter(&fakePrompter{answers: []string{"y"}})), "q")
	assert.True(t, exit)
}

func TestAppHistory(t *testing.T) {
	b, _ := newDemoBridge(t)
	app := NewApp(b)

	_, _ = execute(t, app, "help")
	_, _ = execute(t, app, "add 1 2")
	_, _ = execute(t, app, "")
	assert.Equal(t, []string{"help", "add 1 2"}, app.History())
}

func TestAppInputs(t *testing.T) {
	b, buf := newDemoBridge(t)
	app := NewApp(b)

	_, err := execute(t, app, "add 1 2")
	require.NoError(t, err)
	_, err = execute(t, app, "ADD 3 4")
	require.NoError(t, err)

	buf.Reset()
	_, err = execute(t, app, "inputs")
	require.NoError(t, err)
	assert.True(t, buf.Contains("  1  add 1 2"))
	assert.True(t, buf.Contains("  2  ADD 3 4"))
	assert.True(t, buf.Contains("  3  inputs"))

	buf.Reset()
	NewDisplay(b.Printer()).Inputs(nil)
	assert.True(t, buf.Contains("No input yet"))
}

func TestAppRunScript(t *testing.T) {
	b, buf := newDemoBridge(t)
	app := NewApp(b)

	script := "# setup\n\nadd 1 2\nnote text=hi\nexit\nadd 5 5\n"
	require.NoError(t, app.RunScript(context.Background(), strings.NewReader(script)))
	assert.True(t, buf.Contains("Sum: 3"))
	assert.False(t, buf.Contains("Sum: 10"))

	v, ok := b.ContextValue("last_note")
	require.True(t, ok)
	assert.Equal(t, "hi", v)

	err := app.RunScript(context.Background(), strings.NewReader("add 1 2\nnope\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestDisplayResult(t *testing.T) {
	type size struct {
		Width  int `yaml:"width"`
		Height int `yaml:"height"`
	}
	var nilPtr *size

	long := make([]int, 12)
	for i := range long {
		long[i] = i * 10
	}

	tests := []struct {
		name   string
		result any
		want   []string
	}{
		{name: "nil", result: nil, want: []string{"Function completed (no output)"}},
		{name: "nil pointer", result: nilPtr, want: []string{"Function completed (no output)"}},
		{name: "scalar", result: 42, want: []string{"Result: 42"}},
		{name: "bytes", result: []byte("raw"), want: []string{"Result: raw"}},
		{name: "short list", result: []string{"a", "b"}, want: []string{"Result:", "  0: a", "  1: b"}},
		{name: "long list", result: long, want: []string{
			"Result: 12 items", "  0: 0", "  1: 10", "  2: 20", "  3: 30", "  4: 40", "  ... and 7 more items",
		}},
		{name: "struct", result: &size{Width: 1, Height: 2}, want: []string{"Result:", "width: 1", "height: 2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := output.CaptureOutput(func(p *output.Printer) {
				NewDisplay(p).Result(tt.result)
			})
			assert.Equal(t, tt.want, strings.Split(strings.TrimSuffix(out, "\n"), "\n"))
		})
	}
}

func TestDisplayResultMap(t *testing.T) {
	out := output.CaptureOutput(func(p *output.Printer) {
		NewDisplay(p).Result(map[string]int{"beta": 2, "alpha": 1})
	})

	assert.Contains(t, out, "Result")
	assert.Contains(t, out, "Key")
	assert.Less(t, strings.Index(out, "alpha"), strings.Index(out, "beta"))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		ty      cty.Type
		want    any
		wantErr bool
	}{
		{name: "int", raw: "42", ty: cty.Number, want: 42},
		{name: "float", raw: "2.5", ty: cty.Number, want: 2.5},
		{name: "bad number", raw: "two", ty: cty.Number, wantErr: true},
		{name: "bool yes", raw: "yes", ty: cty.Bool, want: true},
		{name: "bool off", raw: "OFF", ty: cty.Bool, want: false},
		{name: "bad bool", raw: "maybe", ty: cty.Bool, wantErr: true},
		{name: "string", raw: "42", ty: cty.String, want: "42"},
		{name: "infer int", raw: "7", ty: cty.DynamicPseudoType, want: 7},
		{name: "infer bool", raw: "true", ty: cty.DynamicPseudoType, want: true},
		{name: "infer string", raw: "hi", ty: cty.DynamicPseudoType, want: "hi"},
		{name: "list", raw: "1, 2", ty: cty.List(cty.Number), want: []any{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.raw, tt.ty)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseArgs(t *testing.T) {
	named, positional := ParseArgs([]string{"a=1", "x", "b=c=d", "=y"})
	assert.Equal(t, map[string]string{"a": "1", "b": "c=d"}, named)
	assert.Equal(t, []string{"x", "=y"}, positional)
}

func TestThemes(t *testing.T) {
	assert.Equal(t, []string{"dark", "default", "light"}, ThemeNames())

	for _, name := range ThemeNames() {
		theme, err := LoadTheme(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, theme.Name)
		assert.True(t, theme.IsAvailable())
		assert.Contains(t, theme.GetStyle("success").Render("ok"), "ok")
		assert.Contains(t, theme.GetStyle("unknown").Render("ok"), "ok")
	}

	dark, _ := LoadTheme("Dark")
	assert.Equal(t, "dark", dark.GetThemeType())

	_, err := LoadTheme("neon")
	assert.Error(t, err)

	_, err = ParseTheme([]byte("styles: [broken"))
	assert.Error(t, err)
}

func TestNewStyleProvider(t *testing.T) {
	assert.IsType(t, &output.PlainStyleProvider{}, NewStyleProvider("dark", true))
	assert.IsType(t, &output.PlainStyleProvider{}, NewStyleProvider("plain", false))
	assert.IsType(t, &output.PlainStyleProvider{}, NewStyleProvider("neon", false))
}

func TestParseColor(t *testing.T) {
	assert.Equal(t, lipgloss.Color("#fff"), parseColor("#fff"))
	assert.Equal(t, lipgloss.AdaptiveColor{Light: "#000", Dark: "#fff"},
		parseColor(map[string]interface{}{"light": "#000", "dark": "#fff"}))
	assert.Nil(t, parseColor(map[string]interface{}{"light": "#000"}))
	assert.Nil(t, parseColor(3))
}

func TestIsCancelled(t *testing.T) {
	assert.True(t, IsCancelled(ErrCancelled))
	assert.False(t, IsCancelled(errors.New("other")))
}
