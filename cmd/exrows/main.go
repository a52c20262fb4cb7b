// Package main provides the CLI entry point for exrows-go.
package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ukaji3/exrows-go/internal/config"
	"github.com/ukaji3/exrows-go/internal/logging"
	"github.com/ukaji3/exrows-go/internal/server"
	"github.com/ukaji3/exrows-go/pkg/exrows"
	"github.com/ukaji3/exrows-go/pkg/exrows/csvfile"
	"github.com/ukaji3/exrows-go/pkg/exrows/models"
	"github.com/ukaji3/exrows-go/pkg/exrows/output"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds the flags and process state shared by every subcommand.
type cli struct {
	configPath string
	verbose    bool
	pretty     bool
	dryRun     bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	rootCmd := &cobra.Command{
		Use:   "exrows",
		Short: "Read and edit spreadsheet rows",
		Long: `exrows reads and edits rows of spreadsheet documents (.xlsx, .xlsm, .csv, .xls)
and can serve the same operations as tools over JSON-RPC on stdio.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "Path to a YAML config file")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "Enable debug logging")
	flags.BoolVar(&c.pretty, "pretty", false, "Pretty-print JSON output")
	flags.BoolVar(&c.dryRun, "dry-run", false, "Show the row changes instead of saving them")

	rootCmd.AddCommand(
		c.sheetsCmd(),
		c.infoCmd(),
		c.readCmd(),
		c.appendCmd(),
		c.addCmd(),
		c.updateCmd(),
		c.replaceCmd(),
		c.deleteCmd(),
		c.copyCmd(),
		c.serveCmd(),
	)
	return rootCmd
}

func (c *cli) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.verbose {
		cfg.Logging.Level = zapcore.DebugLevel.String()
	}
	if cmd.Flags().Changed("dry-run") {
		cfg.Engine.DryRun = c.dryRun
	}
	c.cfg = cfg

	c.logger, err = logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func (c *cli) open(path string) (*exrows.Engine, error) {
	opts := exrows.Options{Logger: c.logger, DryRun: c.cfg.Engine.DryRun}
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		opts.Codec = csvfile.Codec{Comma: c.cfg.Delimiter()}
	}
	return exrows.Open(path, opts)
}

// view opens path, runs fn and closes the document without saving.
func (c *cli) view(path string, fn func(eng *exrows.Engine) error) error {
	eng, err := c.open(path)
	if err != nil {
		return err
	}
	defer eng.Close()
	return fn(eng)
}

// mutate runs op against sheet. In dry-run mode the engine never writes and
// the change is printed as a diff of the sheet's rows.
func (c *cli) mutate(cmd *cobra.Command, path, sheet string, op func(eng *exrows.Engine) error) error {
	eng, err := c.open(path)
	if err != nil {
		return err
	}
	defer eng.Close()

	var before []models.Row
	if c.cfg.Engine.DryRun {
		if before, err = snapshot(eng, sheet); err != nil {
			return err
		}
	}
	if err := op(eng); err != nil {
		return err
	}
	if !c.cfg.Engine.DryRun {
		return nil
	}

	after, err := snapshot(eng, sheet)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	diff, tooLarge := output.RowDiff(before, after)
	if tooLarge {
		fmt.Fprintf(out, "%s: too many rows to diff (dry run, nothing saved)\n", sheet)
		return nil
	}
	fmt.Fprintf(out, "--- %s (dry run, nothing saved)\n", sheet)
	fmt.Fprint(out, diff)
	return nil
}

func (c *cli) writeJSON(cmd *cobra.Command, v any) error {
	data, err := output.ToJSON(v, c.pretty)
	if err != nil {
		return fmt.Errorf("serialization failed: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the row operations as tools over JSON-RPC on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := server.New(server.Config{
				Name:    c.cfg.Server.Name,
				Version: version,
				Open:    c.open,
			}, c.logger)

			c.logger.Info("server.started", zap.String("name", c.cfg.Server.Name), zap.Bool("dry_run", c.cfg.Engine.DryRun))
			return srv.Serve(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func snapshot(eng *exrows.Engine, sheet string) ([]models.Row, error) {
	rows, err := eng.ReadAllRows(sheet)
	if errors.Is(err, exrows.ErrNotFound) {
		return nil, nil
	}
	return rows, err
}
