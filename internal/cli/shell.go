package cli

import (
	"context"

	"github.com/abiosoft/ishell/v2"

	"bridges/internal/logger"
)

// Shell runs an App in an interactive ishell loop.
type Shell struct {
	app   *App
	shell *ishell.Shell
}

// NewShell creates an interactive shell for app. Every input
// line goes to the App; ishell's own commands are removed.
func NewShell(app *App, prompt string) *Shell {
	sh := ishell.New()
	sh.SetPrompt(prompt)

	sh.DeleteCmd("exit")
	sh.DeleteCmd("help")
	sh.DeleteCmd("clear")

	s := &Shell{app: app, shell: sh}
	app.prompter = NewShellPrompter(sh)
	sh.NotFound(s.handle)
	return s
}

// Run prints the banner and blocks until the user exits.
func (s *Shell) Run() {
	s.app.Banner()
	s.shell.Run()
}

// RunQuiet blocks until the user exits, without the banner.
func (s *Shell) RunQuiet() {
	s.shell.Run()
}

func (s *Shell) handle(c *ishell.Context) {
	if len(c.RawArgs) == 0 {
		return
	}

	exit, err := s.app.Execute(context.Background(), c.RawArgs)
	if err != nil {
		logger.Debug("Shell input failed", "input", c.RawArgs, "error", err)
	}
	if exit {
		c.Stop()
	}
}
