// Package logger holds the process-wide charmbracelet logger used by the
// bridge engine and the CLI, plus component loggers with styled levels.
package logger

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// EnvLevel is consulted when no level is given to Configure.
const EnvLevel = "BRIDGES_LOG_LEVEL"

// Logger is the global logger.
var Logger = newLogger(os.Stderr, log.InfoLevel)

// logFile is the file opened by the last Configure, if any.
var logFile *os.File

func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.New(w)
	l.SetTimeFormat("")
	l.SetLevel(level)
	return l
}

// Configure rebuilds Logger. An empty level falls back to $BRIDGES_LOG_LEVEL,
// then info. A non-empty file is opened for appending. Test mode pins the
// level to info so transcripts do not depend on the environment.
// A log file opened by an earlier call is closed once the new writer is ready.
func Configure(level, file string, testMode bool) error {
	if level == "" {
		level = os.Getenv(EnvLevel)
	}

	var w io.Writer = os.Stderr
	var f *os.File
	if file != "" {
		var err error
		f, err = os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return err
		}
		w = f
	}

	lvl := ParseLevel(level)
	if testMode {
		lvl = log.InfoLevel
	}
	Logger = newLogger(w, lvl)
	return swapLogFile(f)
}

// Close closes the log file opened by Configure and resets Logger to stderr.
func Close() error {
	Logger = newLogger(os.Stderr, Logger.GetLevel())
	return swapLogFile(nil)
}

func swapLogFile(f *os.File) error {
	prev := logFile
	logFile = f
	if prev == nil {
		return nil
	}
	return prev.Close()
}

// ParseLevel maps a level name to a log level. Unknown names mean info.
func ParseLevel(level string) log.Level {
	lvl, err := log.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}

func Debug(msg any, keyvals ...any) { Logger.Debug(msg, keyvals...) }
func Info(msg any, keyvals ...any)  { Logger.Info(msg, keyvals...) }
func Warn(msg any, keyvals ...any)  { Logger.Warn(msg, keyvals...) }
func Error(msg any, keyvals ...any) { Logger.Error(msg, keyvals...) }

// Fatal logs and exits with status 1.
func Fatal(msg any, keyvals ...any) { Logger.Fatal(msg, keyvals...) }

// CommandInvocation traces a command call with its resolved input.
func CommandInvocation(command string, params map[string]any) {
	Debug("Invoking command", "command", command, "params", params)
}

// ContextOperation traces a context mutation and the resulting history length.
func ContextOperation(operation, key string, historyLen int) {
	Debug("Context operation", "operation", operation, "key", key, "history", historyLen)
}

var levelBadges = []struct {
	level log.Level
	label string
	bg    string
}{
	{log.DebugLevel, "DEBUG", "240"},
	{log.InfoLevel, "INFO", "33"},
	{log.WarnLevel, "WARN", "214"},
	{log.ErrorLevel, "ERROR", "196"},
	{log.FatalLevel, "FATAL", "88"},
}

// NewStyledLogger returns a stderr logger for one component (e.g. "Shell")
// at the global level.
func NewStyledLogger(prefix string) *log.Logger {
	return NewStyledLoggerTo(os.Stderr, prefix)
}

// NewStyledLoggerTo is NewStyledLogger writing to w.
func NewStyledLoggerTo(w io.Writer, prefix string) *log.Logger {
	styles := log.DefaultStyles()
	for _, b := range levelBadges {
		styles.Levels[b.level] = lipgloss.NewStyle().
			SetString(b.label).
			Padding(0, 1).
			Background(lipgloss.Color(b.bg)).
			Foreground(lipgloss.Color("15"))
	}

	// Keys the bridge logs with.
	styles.Keys["command"] = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
	styles.Keys["param"] = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	styles.Keys["key"] = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))
	styles.Keys["class"] = lipgloss.NewStyle().Foreground(lipgloss.Color("51"))
	styles.Keys["error"] = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	styles.Values["command"] = lipgloss.NewStyle().Bold(true)
	styles.Values["error"] = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))

	l := log.NewWithOptions(w, log.Options{Prefix: prefix, Level: Logger.GetLevel()})
	l.SetStyles(styles)
	return l
}
