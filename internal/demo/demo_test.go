package demo

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bridges/internal/output"
	"bridges/pkg/bridge"
)

func newDemoBridge(t *testing.T) (*bridge.Bridge, *output.CaptureBuffer) {
	t.Helper()
	buf := output.NewCaptureBuffer()
	b, err := bridge.New("demo", bridge.WithOutput(buf), bridge.WithLogger(log.New(io.Discard)))
	require.NoError(t, err)
	require.NoError(t, Register(b))
	return b, buf
}

func TestRegisterCommands(t *testing.T) {
	b, _ := newDemoBridge(t)

	var names []string
	for _, c := range b.Commands() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{
		"add", "calculate", "greet", "stats", "word_count", "note", "recall",
		"create_counter_instance", "Counter.increment", "Counter.decrement", "Counter.reset", "Counter.get",
	}, names)

	calc, _ := b.Command("calculate")
	assert.Equal(t, "Perform a calculation on two numbers with the given operator.", calc.Description())
	assert.Equal(t, bridge.KindMenu, calc.Source("op").Kind())

	stats, _ := b.Command("stats")
	assert.Equal(t, bridge.KindList, stats.Source("values").Kind())
	assert.Equal(t, "Numbers to summarize", stats.Source("values").Common().Description)

	wc, _ := b.Command("word_count")
	assert.Equal(t, bridge.KindFile, wc.Source("doc").Kind())
}

func TestCalculate(t *testing.T) {
	tests := []struct {
		name    string
		input   map[string]any
		want    float64
		wantErr error
	}{
		{name: "default operator", input: map[string]any{"a": 2, "b": 3}, want: 5},
		{name: "subtract", input: map[string]any{"a": "10", "b": 4, "op": "-"}, want: 6},
		{name: "multiply", input: map[string]any{"a": 2.5, "b": 2, "op": "*"}, want: 5},
		{name: "divide", input: map[string]any{"a": 9, "b": 2, "op": "/"}, want: 4.5},
		{name: "divide by zero", input: map[string]any{"a": 1, "b": 0, "op": "/"}, wantErr: ErrDivisionByZero},
		{name: "unknown operator", input: map[string]any{"a": 1, "b": 1, "op": "%"}, wantErr: bridge.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _ := newDemoBridge(t)
			got, err := b.Invoke(context.Background(), "calculate", tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayOutputs(t *testing.T) {
	b, buf := newDemoBridge(t)
	ctx := context.Background()

	_, err := b.Invoke(ctx, "add", map[string]any{"a": "2", "b": 3})
	require.NoError(t, err)
	_, err = b.Invoke(ctx, "greet", map[string]any{"name": "Ada", "excited": true})
	require.NoError(t, err)

	assert.Equal(t, []string{"Sum: 5", "Greeting: Hello, Ada! 😃"}, buf.Lines())
}

func TestGreet(t *testing.T) {
	assert.Equal(t, "Hello, Bob.", Greet(GreetInput{Name: "Bob"}))
	assert.Equal(t, "Hello, Bob! 😃", Greet(GreetInput{Name: "Bob", Excited: true}))
}

func TestStats(t *testing.T) {
	got, err := Stats([]float64{1, 2, 3, 6})
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{"count": 4, "sum": 12, "mean": 3, "min": 1, "max": 6}, got)

	_, err = Stats(nil)
	assert.Error(t, err)
}

func TestStatsCommandCoercesList(t *testing.T) {
	b, _ := newDemoBridge(t)
	got, err := b.Invoke(context.Background(), "stats", map[string]any{"values": []any{"1", 2, 3.5}})
	require.NoError(t, err)
	assert.Equal(t, 6.5, got.(map[string]float64)["sum"])
}

func TestWordCount(t *testing.T) {
	tests := []struct {
		text string
		want map[string]int
	}{
		{"", map[string]int{"lines": 0, "words": 0, "chars": 0}},
		{"one two\nthree\n", map[string]int{"lines": 2, "words": 3, "chars": 14}},
		{"no newline", map[string]int{"lines": 1, "words": 2, "chars": 10}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, WordCount(bridge.TextFile(tt.text)), tt.text)
	}
}

func TestWordCountCommandReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(path, []byte("a b c\n"), 0o600))

	b, _ := newDemoBridge(t)
	cmd, _ := b.Command("word_count")
	content, err := cmd.Source("doc").(*bridge.File).Load(path)
	require.NoError(t, err)

	got, err := cmd.Invoke(context.Background(), map[string]any{"doc": content})
	require.NoError(t, err)
	assert.Equal(t, 3, got.(map[string]int)["words"])
}

func TestNoteAndRecall(t *testing.T) {
	b, _ := newDemoBridge(t)
	ctx := context.Background()

	got, err := b.Invoke(ctx, "recall", nil)
	require.NoError(t, err)
	assert.Equal(t, "You noted: nothing yet", got)

	_, err = b.Invoke(ctx, "note", map[string]any{"text": "  "})
	assert.ErrorIs(t, err, bridge.ErrValidation)

	_, err = b.Invoke(ctx, "note", map[string]any{"text": "buy milk"})
	require.NoError(t, err)

	got, err = b.Invoke(ctx, "recall", nil)
	require.NoError(t, err)
	assert.Equal(t, "You noted: buy milk", got)
}

func TestCounterClass(t *testing.T) {
	b, _ := newDemoBridge(t)
	ctx := context.Background()

	_, err := b.Invoke(ctx, "create_counter_instance", map[string]any{"start": 10, bridge.InstanceParam: "foo"})
	require.NoError(t, err)

	got, err := b.Invoke(ctx, "Counter.increment", map[string]any{bridge.InstanceParam: "foo"})
	require.NoError(t, err)
	assert.Equal(t, 11, got)

	got, err = b.Invoke(ctx, "Counter.decrement", map[string]any{"amount": 5, bridge.InstanceParam: "foo"})
	require.NoError(t, err)
	assert.Equal(t, 6, got)

	got, err = b.Invoke(ctx, "Counter.reset", map[string]any{bridge.InstanceParam: "foo"})
	require.NoError(t, err)
	assert.Equal(t, 0, got)

	_, err = b.Invoke(ctx, "Counter.get", map[string]any{bridge.InstanceParam: "bar"})
	assert.ErrorIs(t, err, bridge.ErrMissingInstance)
}
