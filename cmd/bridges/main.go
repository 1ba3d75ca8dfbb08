// Package main provides the bridges CLI: an interactive shell and a
// one-shot runner for the commands registered on a bridge.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"bridges/internal/cli"
	"bridges/internal/config"
	"bridges/internal/ctxstore"
	"bridges/internal/demo"
	"bridges/internal/logger"
	"bridges/internal/output"
	"bridges/internal/testutils"
	"bridges/internal/version"
	"bridges/pkg/bridge"
)

var (
	cfgFile       string
	cfg           *config.Config
	interactive   bool
	versionFormat string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bridges",
	Short: "Bridges - expose Go functions as interactive commands",
	Long: `Bridges registers plain Go functions and types as commands, collects their
parameters from the terminal, validates them and displays the results.`,
	Run: runShell, // Default behavior is to run the interactive shell
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start interactive shell mode",
	Run:   runShell,
}

var runCmd = &cobra.Command{
	Use:   "run <command> [key=value | value]...",
	Short: "Run a single command",
	Long: `Run one registered command and print its result. Parameters are given as
key=value pairs or as values in parameter order. Missing parameters use their
defaults unless --interactive is set.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCommand,
}

var batchCmd = &cobra.Command{
	Use:   "batch <script>",
	Short: "Execute a script of shell lines",
	Long: `Execute every line of a script as if typed in the shell. Blank lines and lines
starting with # are skipped. Execution stops at the first failing line.`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	RunE:  runVersion,
}

func main() {
	err := rootCmd.Execute()
	_ = logger.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default: ./bridges.yaml)")
	flags.String(config.KeyLogLevel, "", "Set log level (debug|info|warn|error) [default: info]")
	flags.String(config.KeyLogFile, "", "Write logs to file instead of stderr")
	flags.Bool(config.KeyTestMode, false, "Run in deterministic test mode")
	flags.Bool(config.KeyDebug, false, "Trace every command invocation")
	flags.Bool(config.KeyPlain, false, "Disable colors and styling")
	flags.String(config.KeyTheme, "", "Color theme (default|dark|light|plain)")
	flags.String(config.KeyPrompt, "", "Shell prompt")
	flags.Bool(config.KeyBanner, true, "Show the shell banner")
	flags.String(config.KeyFormat, "", "Output format (text|json) [default: text]")
	flags.BoolP(config.KeyQuiet, "q", false, "Suppress all command output")
	flags.String(config.KeyPrefix, "", "Prefix written before every output line")

	for _, key := range []string{
		config.KeyLogLevel, config.KeyLogFile, config.KeyTestMode, config.KeyDebug,
		config.KeyPlain, config.KeyTheme, config.KeyPrompt, config.KeyBanner,
		config.KeyFormat, config.KeyQuiet, config.KeyPrefix,
	} {
		if err := viper.BindPFlag(key, flags.Lookup(key)); err != nil {
			fmt.Fprintf(os.Stderr, "Error binding %s flag: %v\n", key, err)
			os.Exit(1)
		}
	}

	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Prompt for parameters not given as arguments")
	versionCmd.Flags().StringVarP(&versionFormat, "output", "o", "", "Output format (json|yaml)")

	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(versionCmd)

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	opts := config.DefaultOptions()
	opts.ConfigFile = cfgFile

	var err error
	cfg, err = config.Load(viper.GetViper(), opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Configure(cfg.LogLevel, cfg.LogFile, cfg.TestMode); err != nil {
		fmt.Fprintf(os.Stderr, "Error configuring logger: %v\n", err)
		os.Exit(1)
	}

	output.ConfigureGlobal(printerOptions(cfg)...)
}

// printerOptions maps the output settings onto printer options.
func printerOptions(c *config.Config) []output.Option {
	var opts []output.Option
	if c.TestMode {
		opts = append(opts, output.TestMode())
	} else {
		opts = append(opts, output.WithStyles(cli.NewStyleProvider(c.Theme, c.Plain)))
	}
	if c.Format == config.FormatJSON {
		opts = append(opts, output.JSON())
	}
	if c.Prefix != "" {
		opts = append(opts, output.WithPrefix(c.Prefix))
	}
	if c.Quiet {
		opts = append(opts, output.Silent())
	}
	return opts
}

// newBridge builds the bridge serving the demo commands.
func newBridge() (*bridge.Bridge, error) {
	b, err := bridge.New("bridges",
		bridge.WithVersion(version.GetBaseVersion()),
		bridge.WithDebug(cfg.Debug),
		bridge.WithLogger(logger.Logger.WithPrefix("Bridge")),
		bridge.WithPrinter(output.GetGlobalPrinter()),
		bridge.WithContextOptions(
			ctxstore.WithIDFunc(testutils.IDGenerator(cfg.TestMode)),
			ctxstore.WithClock(testutils.Clock(cfg.TestMode)),
		),
	)
	if err != nil {
		return nil, err
	}
	if err := demo.Register(b); err != nil {
		return nil, fmt.Errorf("failed to register commands: %w", err)
	}
	return b, nil
}

func runShell(_ *cobra.Command, _ []string) {
	logger.Info("Starting bridges shell", "version", version.GetVersion())

	b, err := newBridge()
	if err != nil {
		logger.Fatal("Failed to initialize bridge", "error", err)
	}

	app := cli.NewApp(b, cli.WithDescription("Expose Go functions as interactive commands"))
	sh := cli.NewShell(app, cfg.Prompt)
	if cfg.Banner {
		sh.Run()
		return
	}
	sh.RunQuiet()
}

func runCommand(cmd *cobra.Command, args []string) error {
	b, err := newBridge()
	if err != nil {
		return err
	}

	var opts []cli.AppOption
	if interactive {
		opts = append(opts, cli.WithPrompter(cli.NewLinePrompter(cmd.InOrStdin(), cmd.OutOrStdout())))
	}

	cmd.SilenceUsage = true
	return cli.NewApp(b, opts...).RunCommand(cmd.Context(), args[0], args[1:])
}

func runBatch(cmd *cobra.Command, args []string) error {
	scriptPath := args[0]
	logger.Info("Starting batch mode", "version", version.GetVersion(), "script", scriptPath)

	file, err := os.Open(scriptPath)
	if err != nil {
		return fmt.Errorf("failed to open script: %w", err)
	}
	defer func() { _ = file.Close() }()

	b, err := newBridge()
	if err != nil {
		return err
	}

	cmd.SilenceUsage = true
	if err := cli.NewApp(b).RunScript(cmd.Context(), file); err != nil {
		return fmt.Errorf("script %s: %w", scriptPath, err)
	}
	logger.Info("Script executed successfully", "script", scriptPath)
	return nil
}

func runVersion(cmd *cobra.Command, _ []string) error {
	switch versionFormat {
	case "":
		fmt.Fprintln(cmd.OutOrStdout(), version.GetDetailedVersion())
		return nil
	case "json", "yaml":
	default:
		return fmt.Errorf("unknown output format %q", versionFormat)
	}

	info, err := version.GetInfo()
	if err != nil {
		return err
	}

	var data []byte
	if versionFormat == "json" {
		data, err = json.MarshalIndent(info, "", "  ")
	} else {
		data, err = yaml.Marshal(info)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
