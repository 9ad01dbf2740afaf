// Package cli implements scorectl, an operator tool that drives the scoring
// service directly against a SQLite match store.
package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	appmatches "github.com/preston-bernstein/live-scoring-service/internal/app/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/config"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/store/sqlite"
)

// RootOptions holds the persistent flags shared by every subcommand.
type RootOptions struct {
	DBPath  string
	Format  string
	Verbose bool
}

// NewRootCommand builds the scorectl command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "scorectl",
		Short: "Create matches and apply scoring events from the command line",
		Long: `scorectl opens the SQLite match store used by the scoring service and
runs matches through the same validation and scoring engines.

Matches created here are visible to a server started with STORAGE_DRIVER=sqlite
pointing at the same file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Format != FormatText && opts.Format != FormatJSON {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be %q or %q", opts.Format, FormatText, FormatJSON))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "SQLite database path (defaults to STORAGE_PATH)")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "Output format: text or json")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Log service activity to stderr")

	cmd.AddCommand(
		NewCreateCommand(opts),
		NewApplyCommand(opts),
		NewShowCommand(opts),
		NewListCommand(opts),
		NewSportsCommand(opts),
		NewImportCommand(opts),
	)
	return cmd
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout(), ErrWriter: cmd.ErrOrStderr()}
}

// session is an opened store with a service on top of it.
type session struct {
	cfg    config.Config
	logger *slog.Logger
	svc    *appmatches.Service
	store  *sqlite.Store
	out    *OutputFormatter
}

func (s *session) Close() {
	_ = s.store.Close()
}

func openSession(cmd *cobra.Command, opts *RootOptions) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "load config", err)
	}
	path := opts.DBPath
	if path == "" {
		path = cfg.Storage.Path
	}

	level := "warn"
	if opts.Verbose {
		level = "debug"
	}
	logger := logging.NewLogger(logging.Config{
		Level:   level,
		Format:  cfg.LogFormat,
		Service: "scorectl",
		Output:  cmd.ErrOrStderr(),
	})

	st, err := sqlite.Open(cmd.Context(), path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "open store", err)
	}
	logging.Debug(logger, "store opened", logging.FieldPath, path)

	svc := appmatches.NewService(st, appmatches.Options{
		Logger:       logger,
		MaxRetries:   cfg.Scoring.MaxRetries,
		RetryBackoff: cfg.Scoring.RetryBackoff,
		Timeout:      cfg.Scoring.SaveTimeout,
	})
	return &session{cfg: cfg, logger: logger, svc: svc, store: st, out: opts.formatter(cmd)}, nil
}
