package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/abiosoft/ishell/v2"
)

// ErrCancelled is returned when the user aborts parameter collection.
var ErrCancelled = errors.New("cancelled")

// Prompter reads one line of user input after showing a prompt.
type Prompter interface {
	ReadLine(prompt string) (string, error)
}

// shellPrompter reads through an ishell shell or command context.
type shellPrompter struct {
	actions ishell.Actions
}

// NewShellPrompter adapts ishell actions to a Prompter.
func NewShellPrompter(actions ishell.Actions) Prompter {
	return &shellPrompter{actions: actions}
}

func (p *shellPrompter) ReadLine(prompt string) (string, error) {
	p.actions.ShowPrompt(false)
	defer p.actions.ShowPrompt(true)

	p.actions.Print(prompt)
	line, err := p.actions.ReadLineErr()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCancelled, err)
	}
	return line, nil
}

// LinePrompter reads lines from a plain reader, for non-interactive runs.
type LinePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

// NewLinePrompter creates a LinePrompter that writes prompts to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{scanner: bufio.NewScanner(in), out: out}
}

func (p *LinePrompter) ReadLine(prompt string) (string, error) {
	_, _ = fmt.Fprint(p.out, prompt)
	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", fmt.Errorf("%w: %v", ErrCancelled, err)
		}
		return "", fmt.Errorf("%w: end of input", ErrCancelled)
	}
	return p.scanner.Text(), nil
}
