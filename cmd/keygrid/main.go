// Package main is the entry point for keygrid.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dshills/keygrid/internal/app"
	"github.com/dshills/keygrid/internal/config"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

// execute runs the command line and returns the exit code. Errors from
// any command, flag parsing included, are reported on stderr.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "keygrid",
		Short: "Spreadsheet-style grid editor for the terminal",
		Long: `keygrid edits a grid of text cells in the terminal. Right click a
cell or header, or press F2, for the context menu.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := root.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Path to configuration file (.toml or .yaml)")
	flags.StringVarP(&opts.ScriptPath, "script", "s", "", "Lua script to run at startup")
	flags.BoolVarP(&opts.Watch, "watch", "w", false, "Reload the config and rerun the script when they change")
	flags.IntVar(&opts.Width, "width", 0, "Initial number of columns")
	flags.IntVar(&opts.Height, "height", 0, "Initial number of rows")
	flags.BoolVar(&opts.LegacyTitles, "legacy-titles", false, "Title columns as earlier releases did (Z is followed by BA)")
	flags.StringVar(&opts.LogFile, "log-file", "", "Write logs to this file")

	root.AddCommand(newVersionCmd(), newConfigCmd())
	return root
}

func run(ctx context.Context, opts app.Options) error {
	application, err := app.New(opts)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		return err
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "keygrid %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}

// newConfigCmd prints the effective configuration after merging the
// defaults, the config file and the environment.
func newConfigCmd() *cobra.Command {
	var (
		path   string
		format string
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.NewLoader().Load(path)
			if err != nil {
				return err
			}
			data, err := config.Marshal(cfg, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "Path to configuration file")
	cmd.Flags().StringVarP(&format, "format", "f", config.FormatTOML, "Output format (toml or yaml)")
	return cmd
}
