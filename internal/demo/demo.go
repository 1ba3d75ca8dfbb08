// Package demo registers the sample commands served by the bridges CLI.
package demo

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"bridges/pkg/bridge"
)

// LastNoteKey is the context key written by note and read by recall.
const LastNoteKey = "last_note"

// ErrDivisionByZero is returned by Calculate for "/" with b == 0.
var ErrDivisionByZero = errors.New("division by zero")

// Add adds two numbers.
func Add(a, b int) int {
	return a + b
}

// Operator is an arithmetic operator chosen from a menu.
type Operator string

func (Operator) EnumOptions() []bridge.Option {
	return []bridge.Option{
		{Label: "+", Value: Operator("+")},
		{Label: "-", Value: Operator("-")},
		{Label: "*", Value: Operator("*")},
		{Label: "/", Value: Operator("/")},
	}
}

// CalculateInput holds the operands and operator of calculate.
type CalculateInput struct {
	A  float64  `bridge:"a" description:"First operand"`
	B  float64  `bridge:"b" description:"Second operand"`
	Op Operator `bridge:"op" default:"+" description:"Operator"`
}

func (CalculateInput) Describe() string {
	return "Perform a calculation on two numbers with the given operator."
}

// Calculate applies the operator to a and b.
func Calculate(in CalculateInput) (float64, error) {
	switch in.Op {
	case "+":
		return in.A + in.B, nil
	case "-":
		return in.A - in.B, nil
	case "*":
		return in.A * in.B, nil
	case "/":
		if in.B == 0 {
			return 0, ErrDivisionByZero
		}
		return in.A / in.B, nil
	default:
		return 0, fmt.Errorf("invalid operator %q", in.Op)
	}
}

// GreetInput holds the parameters of greet.
type GreetInput struct {
	Name    string `bridge:"name" description:"Who to greet"`
	Excited bool   `bridge:"excited" default:"false"`
}

func (GreetInput) Describe() string {
	return "Greet a user, optionally with excitement."
}

// Greet returns a greeting for in.Name.
func Greet(in GreetInput) string {
	if in.Excited {
		return fmt.Sprintf("Hello, %s! 😃", in.Name)
	}
	return fmt.Sprintf("Hello, %s.", in.Name)
}

// Stats summarizes a list of numbers.
func Stats(values []float64) (map[string]float64, error) {
	if len(values) == 0 {
		return nil, errors.New("no values")
	}
	sum, lo, hi := 0.0, math.Inf(1), math.Inf(-1)
	for _, v := range values {
		sum += v
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return map[string]float64{
		"count": float64(len(values)),
		"sum":   sum,
		"mean":  sum / float64(len(values)),
		"min":   lo,
		"max":   hi,
	}, nil
}

// WordCount counts the lines, words and characters of a text file.
func WordCount(doc bridge.TextFile) map[string]int {
	text := string(doc)
	lines := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		lines++
	}
	return map[string]int{
		"lines": lines,
		"words": len(strings.Fields(text)),
		"chars": len([]rune(text)),
	}
}

// Note returns text unchanged; its command stores it in the context.
func Note(text string) string {
	return text
}

// Recall returns the stored note.
func Recall(note string) string {
	return "You noted: " + note
}

// Counter is a stateful counter exposed as a class.
type Counter struct {
	Value int
}

// CounterInput holds the constructor parameters of Counter.
type CounterInput struct {
	Start int `bridge:"start" default:"0" description:"Initial value"`
}

func (CounterInput) Describe() string { return "Create a new Counter instance" }

// NewCounter returns a counter starting at in.Start.
func NewCounter(in CounterInput) *Counter {
	return &Counter{Value: in.Start}
}

// Increment adds amount and returns the new value.
func (c *Counter) Increment(amount int) int {
	c.Value += amount
	return c.Value
}

// Decrement subtracts amount and returns the new value.
func (c *Counter) Decrement(amount int) int {
	c.Value -= amount
	return c.Value
}

// Reset sets the value to zero.
func (c *Counter) Reset() int {
	c.Value = 0
	return c.Value
}

// Get returns the current value.
func (c *Counter) Get() int {
	return c.Value
}

// Register adds every demo command to b.
func Register(b *bridge.Bridge) error {
	registrations := []struct {
		fn   any
		opts []bridge.RegisterOption
	}{
		{Add, []bridge.RegisterOption{
			bridge.Args("a", "b"),
			bridge.Description("Add two numbers."),
			bridge.Outputs(bridge.Display{Format: "Sum: {value}"}),
		}},
		{Calculate, []bridge.RegisterOption{
			bridge.Outputs(bridge.Display{Format: "Result: {value}"}),
		}},
		{Greet, []bridge.RegisterOption{
			bridge.Outputs(bridge.Display{Format: "Greeting: {value}"}),
		}},
		{Stats, []bridge.RegisterOption{
			bridge.Args("values"),
			bridge.Description("Summarize a list of numbers."),
			bridge.Meta("values", bridge.ParamMeta{Description: "Numbers to summarize"}),
		}},
		{WordCount, []bridge.RegisterOption{
			bridge.Args("doc"),
			bridge.Description("Count the lines, words and characters of a file."),
		}},
		{Note, []bridge.RegisterOption{
			bridge.Args("text"),
			bridge.Description("Store a note in the context."),
			bridge.Param("text", bridge.NewInput(bridge.WithValidator(nonEmpty))),
			bridge.Outputs(bridge.ToContext{Key: LastNoteKey}),
		}},
		{Recall, []bridge.RegisterOption{
			bridge.Args("note"),
			bridge.Description("Show the last stored note."),
			bridge.Param("note", bridge.NewContextSource(LastNoteKey, bridge.WithDefault("nothing yet"))),
		}},
	}

	for _, r := range registrations {
		if _, err := b.Register(r.fn, r.opts...); err != nil {
			return err
		}
	}

	return b.RegisterClass(NewCounter, []bridge.Method{
		{Name: "increment", Args: []string{"amount"}, Params: map[string]bridge.ParamSource{
			"amount": bridge.NewInput(bridge.WithDefault(1)),
		}},
		{Name: "decrement", Args: []string{"amount"}, Params: map[string]bridge.ParamSource{
			"amount": bridge.NewInput(bridge.WithDefault(1)),
		}},
		{Name: "reset", Description: "Reset the counter to zero"},
		{Name: "get", Description: "Show the counter value"},
	})
}

var nonEmpty = bridge.Predicate(func(v any) bool {
	s, ok := v.(string)
	return !ok || strings.TrimSpace(s) != ""
})
