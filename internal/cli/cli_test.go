package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridges/internal/demo"
	"bridges/internal/output"
	"bridges/pkg/bridge"
)

// fakePrompter answers prompts from a fixed script and records them.
type fakePrompter struct {
	answers []string
	prompts []string
}

func (f *fakePrompter) ReadLine(prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	if len(f.answers) == 0 {
		return "", ErrCancelled
	}
	answer := f.answers[0]
	f.answers = f.answers[1:]
	return answer, nil
}

func newDemoBridge(t *testing.T) (*bridge.Bridge, *output.CaptureBuffer) {
	t.Helper()
	buf := output.NewCaptureBuffer()
	b, err := bridge.New("demo", bridge.WithOutput(buf), bridge.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	require.NoError(t, demo.Register(b))
	return b, buf
}

func command(t *testing.T, b *bridge.Bridge, name string) *bridge.Command {
	t.Helper()
	cmd, ok := b.Command(name)
	require.True(t, ok, "command %s not registered", name)
	return cmd
}

func TestCollectorInputAndMenu(t *testing.T) {
	b, buf := newDemoBridge(t)
	p := &fakePrompter{answers: []string{"4", "2", ""}}

	params, err := NewCollector(b.Printer(), p).Collect(command(t, b, "calculate"), nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": 4, "b": 2, "op": demo.Operator("+")}, params)
	assert.Equal(t, "Select option [default: 0]: ", p.prompts[2])
	assert.True(t, buf.Contains("  → 0: +"))
	assert.True(t, buf.Contains("Selected: +"))
}

func TestCollectorMenuRetries(t *testing.T) {
	b, buf := newDemoBridge(t)
	p := &fakePrompter{answers: []string{"1", "1", "9", "x", "2"}}

	params, err := NewCollector(b.Printer(), p).Collect(command(t, b, "calculate"), nil)
	require.NoError(t, err)

	assert.Equal(t, demo.Operator("*"), params["op"])
	assert.True(t, buf.Contains("Invalid option."))
	assert.True(t, buf.Contains("Please enter a number."))
}

func TestCollectorInputRetriesInvalidNumber(t *testing.T) {
	b, buf := newDemoBridge(t)
	p := &fakePrompter{answers: []string{"abc", "3", "-2"}}

	params, err := NewCollector(b.Printer(), p).Collect(command(t, b, "add"), nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"a": 3, "b": -2}, params)
	assert.True(t, buf.Contains("invalid number 'abc'"))
}

func TestCollectorDefaultsLeftToPipeline(t *testing.T) {
	b, buf := newDemoBridge(t)
	p := &fakePrompter{answers: []string{"Ada", ""}}

	cmd := command(t, b, "greet")
	params, err := NewCollector(b.Printer(), p).Collect(cmd, nil)
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"name": "Ada"}, params)
	assert.Equal(t, "Enter value [default: false]: ", p.prompts[1])
	assert.True(t, buf.Contains("Using default: false"))

	got, err := cmd.Invoke(context.Background(), params)
	require.NoError(t, err)
	assert.Equal(t, "Hello, Ada.", got)
}

func TestCollectorList(t *testing.T) {
	b, buf := newDemoBridge(t)
	p := &fakePrompter{answers: []string{"1, x", "1, 2.5, 3"}}

	params, err := NewCollector(b.Printer(), p).Collect(command(t, b, "stats"), nil)
	require.NoError(t, err)

	assert.Equal(t, []any{1, 2.5, 3}, params["values"])
	assert.Equal(t, "Enter values (separated by ','): ", p.prompts[0])
	assert.True(t, buf.Contains("Invalid values for values"))
	assert.True(t, buf.Contains("Added 3 items"))
}

func TestCollectorFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world\n"), 0o600))

	b, buf := newDemoBridge(t)
	p := &fakePrompter{answers: []string{filepath.Join(t.TempDir(), "missing.txt"), path}}

	params, err := NewCollector(b.Printer(), p).Collect(command(t, b, "word_count"), nil)
	require.NoError(t, err)

	assert.Equal(t, "hello world\n", params["doc"])
	assert.True(t, buf.Contains("Error reading file"))
	assert.True(t, buf.Contains("File loaded: "+path))

	p = &fakePrompter{answers: []string{"cancel"}}
	params, err = NewCollector(b.Printer(), p).Collect(command(t, b, "word_count"), nil)
	require.NoError(t, err)
	assert.Empty(t, params)
}

func TestCollectorContextAutoFill(t *testing.T) {
	b, buf := newDemoBridge(t)
	p := &fakePrompter{}

	params, err := NewCollector(b.Printer(), p).Collect(command(t, b, "recall"), nil)
	require.NoError(t, err)
	assert.Empty(t, params)
	assert.True(t, buf.Contains("note (from context: 'last_note') not set"))

	b.UpdateContext(demo.LastNoteKey, "milk")
	params, err = NewCollector(b.Printer(), p).Collect(command(t, b, "recall"), nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"note": "milk"}, params)
	assert.True(t, buf.Contains("Auto-filled: milk"))
	assert.Empty(t, p.prompts)
}

func TestCollectorPreset(t *testing.T) {
	b, _ := newDemoBridge(t)
	p := &fakePrompter{}

	params, err := NewCollector(b.Printer(), p).Collect(command(t, b, "calculate"),
		map[string]string{"a": "1.5", "b": "2", "op": "/"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.5, "b": 2, "op": demo.Operator("/")}, params)
	assert.Empty(t, p.prompts)

	_, err = NewCollector(b.Printer(), p).Collect(command(t, b, "calculate"),
		map[string]string{"a": "1", "b": "2", "op": "%"})
	assert.Error(t, err)
}

func TestCollectorCancelAndNonInteractive(t *testing.T) {
	b, _ := newDemoBridge(t)

	_, err := NewCollector(b.Printer(), &fakePrompter{}).Collect(command(t, b, "add"), nil)
	assert.True(t, IsCancelled(err))

	params, err := NewCollector(b.Printer(), nil).Collect(command(t, b, "add"), map[string]string{"a": "1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, params)
}

func TestLinePrompter(t *testing.T) {
	var out strings.Builder
	p := NewLinePrompter(strings.NewReader("first\nsecond\n"), &out)

	line, err := p.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "first", line)
	line, err = p.ReadLine("> ")
	require.NoError(t, err)
	assert.Equal(t, "second", line)

	_, err = p.ReadLine("> ")
	assert.True(t, IsCancelled(err))
	assert.Equal(t, "> > > ", out.String())
}
