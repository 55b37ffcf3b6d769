package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	tea "charm.land/bubbletea/v2"
	"github.com/ionut-t/goaccel/adapter-bubbletea/highlighter"
	"github.com/ionut-t/goaccel/config"
	"github.com/ionut-t/goaccel/core"
	"github.com/ionut-t/goaccel/positions"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

var (
	flagConfig    string
	flagPositions string
	flagDebug     bool
)

var (
	addName        string
	addHeight      int
	addAccelerator string
	listRaw        bool
	initForce      bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "goaccel",
	Short: "Keyboard shortcuts for saved desk positions",
	Long: `goaccel keeps a list of named desk heights, each with an optional
keyboard shortcut captured straight from the keyboard.

Run without arguments to manage positions in the terminal UI.

Examples:
  goaccel                                   # Manage positions
  goaccel add                               # Add a position interactively
  goaccel add -n stand -H 11000 -a Alt+1    # Add a position without the UI
  goaccel capture                           # Print the next key combination
  goaccel check CmdOrCtrl+Shift+s           # Validate an accelerator`,
	Version:       version,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		changes := make(chan []positions.Position, 1)
		go func() {
			err := env.store.Watch(ctx, func(list []positions.Position) {
				select {
				case changes <- list:
				default:
					// A newer reload is already pending.
				}
			})
			if err != nil {
				slog.Warn("[goaccel] positions watcher stopped", "error", err)
			}
		}()

		_, err = tea.NewProgram(newApp(env, pageManage, changes)).Run()
		return err
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a new position",
	Long: `Add a new position. Without --name the form opens in the terminal UI
and the shortcut is captured from the keyboard.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		if cmd.Flags().Changed("name") {
			return addPosition(cmd.OutOrStdout(), env)
		}

		final, err := tea.NewProgram(newApp(env, pageForm, nil)).Run()
		if err != nil {
			return err
		}
		if a, ok := final.(app); ok && a.created != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "position %q saved\n", a.created.Name)
		}
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved positions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		if listRaw {
			raw, err := env.store.Raw()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), highlighter.New("yaml", env.cfg.Theme).Render(string(raw)))
			return nil
		}

		list, err := env.store.Positions()
		if err != nil {
			return err
		}
		printPositions(cmd.OutOrStdout(), list)
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a saved position",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := setup()
		if err != nil {
			return err
		}
		defer env.Close()

		if _, err := env.store.Remove(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "position %q removed\n", args[0])
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check <accelerator>",
	Short: "Validate an accelerator string",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := core.Parse(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), acc.String())
		return nil
	},
}

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture one key combination and print it",
	Long: `Capture one key combination and print it as an accelerator.
Up to two modifiers are kept; the first other key completes the combination.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, closeLog, err := loadConfig()
		if err != nil {
			return err
		}
		defer closeLog()

		final, err := tea.NewProgram(newCaptureModel(cfg)).Run()
		if err != nil {
			return err
		}
		m, ok := final.(captureModel)
		if !ok || m.result == "" {
			return errors.New("no key combination captured")
		}
		fmt.Fprintln(cmd.OutOrStdout(), m.result)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := flagConfig
		if path == "" {
			path = config.DefaultPath()
		}

		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config %s already exists (use --force to overwrite)", path)
		}

		cfg := config.DefaultConfig()
		if flagPositions != "" {
			cfg.PositionsFile = flagPositions
		}
		if _, err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "config file (default "+config.DefaultPath()+")")
	rootCmd.PersistentFlags().StringVarP(&flagPositions, "positions", "p", "", "positions file (overrides the config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "enable debug logging")

	addCmd.Flags().StringVarP(&addName, "name", "n", "", "position name")
	addCmd.Flags().IntVarP(&addHeight, "height", "H", 0, "position height (defaults to the configured default)")
	addCmd.Flags().StringVarP(&addAccelerator, "accelerator", "a", "", "shortcut, e.g. CmdOrCtrl+Shift+s")

	listCmd.Flags().BoolVar(&listRaw, "raw", false, "print the positions file")

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config")

	rootCmd.AddCommand(initCmd, addCmd, listCmd, removeCmd, checkCmd, captureCmd)
}

type environment struct {
	cfg      config.Config
	store    *positions.Store
	closeLog func()
}

func (e *environment) Close() {
	e.closeLog()
}

func setup() (*environment, error) {
	cfg, closeLog, err := loadConfig()
	if err != nil {
		return nil, err
	}

	store, err := positions.Open(cfg.PositionsFile)
	if err != nil {
		closeLog()
		return nil, err
	}

	return &environment{cfg: cfg, store: store, closeLog: closeLog}, nil
}

func loadConfig() (config.Config, func(), error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return cfg, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if flagPositions != "" {
		cfg.PositionsFile = flagPositions
	}

	closeLog, err := setupLogging(cfg.LogFile, flagDebug)
	if err != nil {
		return cfg, nil, err
	}
	slog.Debug("[goaccel] config loaded", "path", path, "positions", cfg.PositionsFile)
	return cfg, closeLog, nil
}

// setupLogging routes slog to the configured log file. The terminal belongs
// to the UI, so without a log file logs are discarded.
func setupLogging(path string, debug bool) (func(), error) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	if path == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return func() {}, nil
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return func() { _ = f.Close() }, nil
}

func addPosition(w io.Writer, env *environment) error {
	height := addHeight
	if height == 0 {
		height = env.cfg.Height.Default
	}

	bounds := positions.Bounds{Min: env.cfg.Height.Min, Max: env.cfg.Height.Max}
	height, err := positions.ValidateInput(addName, strconv.Itoa(height), bounds)
	if err != nil {
		return err
	}

	res, err := env.store.CreatePosition(addName, height, addAccelerator)
	if err != nil {
		return err
	}
	if res == positions.ResultDuplicate {
		return fmt.Errorf("a position named %q already exists", addName)
	}

	fmt.Fprintf(w, "position %q saved\n", addName)
	return nil
}

func printPositions(w io.Writer, list []positions.Position) {
	if len(list) == 0 {
		fmt.Fprintln(w, "no saved positions")
		return
	}
	fmt.Fprintf(w, "%-24s %-8s %s\n", "NAME", "HEIGHT", "SHORTCUT")
	for _, p := range list {
		shortcut := p.Accelerator
		if shortcut == "" {
			shortcut = "-"
		}
		fmt.Fprintf(w, "%-24s %-8d %s\n", p.Name, p.Value, shortcut)
	}
}
