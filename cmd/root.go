// Package cmd implements the CLI command structure for taskflow.
package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/taskflow/internal/config"
	"github.com/nibzard/taskflow/internal/logging"
	"github.com/nibzard/taskflow/internal/store"
	"github.com/nibzard/taskflow/internal/theme"
	"github.com/nibzard/taskflow/internal/todo"
	"github.com/nibzard/taskflow/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskflow CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskflow", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// With no subcommand the TUI starts.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "toggle", "done":
		return toggleCommand(ctx, cfg, remainingArgs)
	case "edit":
		return editCommand(ctx, cfg, remainingArgs)
	case "rm", "delete":
		return rmCommand(ctx, cfg, remainingArgs)
	case "clear":
		return clearCommand(ctx, cfg, remainingArgs)
	case "export":
		return exportCommand(ctx, cfg, remainingArgs)
	case "import":
		return importCommand(ctx, cfg, remainingArgs)
	case "theme":
		return themeCommand(ctx, cfg, remainingArgs)
	case "config":
		return configCommand(cws, remainingArgs)
	case "tail":
		return tailCommand(ctx, cfg, remainingArgs)
	case "completion":
		return completionCommand(remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// app bundles what every task command needs: the open database, the
// controller over it and the logger.
type app struct {
	cfg      *config.Config
	store    *store.Store
	ctrl     *todo.Controller
	logger   *log.Logger
	logClose io.Closer
}

// openApp sets up logging and opens the task database. The caller must
// Close the result.
func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	opts := logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller)
	logger, logClose, err := logging.Setup(cfg.LogFile, os.Stderr, opts)
	if err != nil {
		return nil, fmt.Errorf("setting up logging: %w", err)
	}

	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		logger.Error("Failed to open database", "path", cfg.DBPath, "err", err)
		_ = logClose.Close()
		return nil, fmt.Errorf("opening database: %w", err)
	}
	logger.Debug("Opened database", "path", st.Path())

	return &app{
		cfg:      cfg,
		store:    st,
		ctrl:     todo.NewController(st, todo.WithLogger(logger)),
		logger:   logger,
		logClose: logClose,
	}, nil
}

// openLoaded opens the app and loads the task list.
func openLoaded(ctx context.Context, cfg *config.Config) (*app, error) {
	a, err := openApp(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := a.ctrl.Load(ctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return a, nil
}

// themes returns a theme manager over the app's settings with the
// configured default applied. Call Resolve before reading its mode.
func (a *app) themes() *theme.Manager {
	var fallback theme.Mode
	if a.cfg.Theme != "" {
		if mode, err := theme.ParseMode(a.cfg.Theme); err == nil {
			fallback = mode
		}
	}
	return theme.NewManager(a.store, theme.WithLogger(a.logger), theme.WithDefault(fallback))
}

// Close closes the database and the log file.
func (a *app) Close() error {
	return errors.Join(a.store.Close(), a.logClose.Close())
}

// tuiCommand launches the interactive task list.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskflow tui", flag.ContinueOnError)
	inline := fs.Bool("inline", false, "Render inline instead of using the alternate screen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	a, err := openApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	themes := a.themes()
	themes.Resolve(ctx)

	a.logger.Info("Starting TUI", "db", a.store.Path(), "theme", themes.Mode())
	return ui.RunTUI(ctx, a.ctrl, themes, ui.WithAltScreen(!*inline))
}

// tailCommand prints the log file.
func tailCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskflow tail", flag.ContinueOnError)
	follow := fs.Bool("f", false, "Follow the log (like tail -f)")
	fs.BoolVar(follow, "follow", false, "Follow the log (like tail -f)")
	n := fs.Int("n", 20, "Number of lines to show (0 = all)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if cfg.LogFile == "" {
		return fmt.Errorf("no log file configured (logs go to stderr)")
	}
	if _, err := os.Stat(cfg.LogFile); errors.Is(err, os.ErrNotExist) {
		fmt.Println("No log file yet.")
		return nil
	}

	if *follow {
		fmt.Printf("Tailing: %s (Ctrl+C to stop)\n\n", cfg.LogFile)
	}
	return logging.TailLog(ctx, os.Stdout, cfg.LogFile, *n, *follow)
}

// configCommand prints an example config, or the effective config with the
// source of each value.
func configCommand(cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("taskflow config", flag.ContinueOnError)
	showSources := fs.Bool("sources", false, "Show effective values and where they came from")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*showSources {
		fmt.Print(config.ExampleConfig())
		return nil
	}

	cfg := cws.Config
	if file := cws.GetConfigFile(); file != "" {
		fmt.Printf("Config file: %s\n\n", file)
	} else {
		fmt.Println("Config file: (none)")
		fmt.Println()
	}
	rows := []struct {
		key   string
		value string
	}{
		{"db_path", cfg.DBPath},
		{"log_file", cfg.LogFile},
		{"theme", cfg.Theme},
		{"log_level", cfg.LogLevel},
		{"log_format", cfg.LogFormat},
		{"log_timestamps", fmt.Sprint(cfg.LogTimestamps)},
		{"log_caller", fmt.Sprint(cfg.LogCaller)},
	}
	for _, r := range rows {
		fmt.Printf("  %-15s %-40q (%s)\n", r.key, r.value, cws.Sources[r.key])
	}
	return nil
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Printf("taskflow version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "taskflow - A keyboard-driven todo list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  taskflow [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui                 Launch the interactive list (default command)")
	fmt.Fprintln(w, "  add <text...>       Add a task")
	fmt.Fprintln(w, "  ls                  List tasks")
	fmt.Fprintln(w, "  toggle <id>         Mark a task done or not done")
	fmt.Fprintln(w, "  edit <id> <text...> Change a task's text (empty text deletes)")
	fmt.Fprintln(w, "  rm <id>             Delete a task")
	fmt.Fprintln(w, "  clear               Delete all completed tasks")
	fmt.Fprintln(w, "  export [file]       Write tasks as JSON (stdout when no file)")
	fmt.Fprintln(w, "  import <file>       Read tasks from an export file")
	fmt.Fprintln(w, "  theme [mode]        Show or set the theme (dark, light, toggle)")
	fmt.Fprintln(w, "  config              Print an example config file")
	fmt.Fprintln(w, "  tail                Print the log file")
	fmt.Fprintln(w, "  completion <shell>  Print a shell completion script")
	fmt.Fprintln(w, "  version             Show version information")
	fmt.Fprintln(w, "  help                Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -filter string")
	fmt.Fprintln(w, "        Show all, active or completed tasks (default \"all\")")
	fmt.Fprintln(w, "  -json")
	fmt.Fprintln(w, "        Print tasks as JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tail Options (use with 'tail' command):")
	fmt.Fprintln(w, "  -f, --follow")
	fmt.Fprintln(w, "        Follow the log (like tail -f)")
	fmt.Fprintln(w, "  -n int")
	fmt.Fprintln(w, "        Number of lines to show (0 = all, default 20)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -sources")
	fmt.Fprintln(w, "        Show effective values and where they came from")
}
