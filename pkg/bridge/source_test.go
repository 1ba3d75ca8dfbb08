package bridge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceKinds(t *testing.T) {
	tests := []struct {
		src  ParamSource
		kind SourceKind
		name string
	}{
		{NewInput(), KindInput, "input"},
		{NewMenu(Choices("+", "-")), KindMenu, "menu"},
		{NewContextSource("k"), KindContext, "context"},
		{NewList(nil, ""), KindList, "list"},
		{NewFile(""), KindFile, "file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.src.Kind())
			assert.Equal(t, tt.name, tt.src.Kind().String())
		})
	}
}

func TestDescriptorOrder(t *testing.T) {
	kinds := make([]SourceKind, len(descriptors))
	for i, d := range descriptors {
		kinds[i] = d.kind
	}
	assert.Equal(t, []SourceKind{KindMenu, KindList, KindFile, KindContext, KindInput}, kinds)
}

func TestSourceOptions(t *testing.T) {
	v := Predicate(func(any) bool { return true })
	src := NewInput(WithDefault("x"), WithDescription("desc"), WithValidator(v))

	assert.Equal(t, "desc", src.Common().Description)
	assert.NotNil(t, src.Common().Validator)
	def, ok := src.DefaultValue()
	require.True(t, ok)
	assert.Equal(t, "x", def)

	_, ok = NewInput().DefaultValue()
	assert.False(t, ok)

	n := 0
	lazy := NewInput(WithDefault(func() any { n++; return n }))
	first, _ := lazy.DefaultValue()
	second, _ := lazy.DefaultValue()
	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second)
}

func TestPredicate(t *testing.T) {
	even := Predicate(func(v any) bool { return v.(int)%2 == 0 })
	assert.NoError(t, even(4))
	assert.True(t, errors.Is(even(3), ErrRejected))
}

func TestMenu(t *testing.T) {
	m := NewMenu([]Option{{Label: "Add", Value: "+"}, {Label: "Sub", Value: "-"}}, WithDefault("+"))
	assert.Equal(t, 1, m.Index("-"))
	assert.Equal(t, -1, m.Index("*"))
	assert.Equal(t, []any{"+", "-"}, m.Values())

	opts := Choices(1, 2)
	assert.Equal(t, []Option{{Label: "1", Value: 1}, {Label: "2", Value: 2}}, opts)
}

func TestListSplit(t *testing.T) {
	tests := []struct {
		name string
		sep  string
		raw  string
		want []string
	}{
		{name: "default separator", raw: "a, b ,c", want: []string{"a", "b", "c"}},
		{name: "custom separator", sep: ";", raw: "1;2", want: []string{"1", "2"}},
		{name: "empty", raw: "  ", want: []string{}},
		{name: "keeps empty items", raw: "a,,b", want: []string{"a", "", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewList(nil, tt.sep)
			assert.Equal(t, tt.want, l.Split(tt.raw))
		})
	}
}

func TestFileLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello"), 0o600))

	v, err := NewFile("r").Load(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", v)

	v, err = NewFile("rb").Load(path)
	require.NoError(t, err)
	assert.Equal(t, []byte("hello"), v)

	for _, mode := range []string{"w", "a"} {
		f := NewFile(mode)
		assert.True(t, f.Writes())
		v, err = f.Load("/nonexistent/out.txt")
		require.NoError(t, err)
		assert.Equal(t, "/nonexistent/out.txt", v)
	}

	_, err = NewFile("").Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestDisplayRender(t *testing.T) {
	assert.Equal(t, "5", Display{}.Render(5))
	assert.Equal(t, "Result: 5 (5)", Display{Format: "Result: {value} ({value})"}.Render(5))
}
