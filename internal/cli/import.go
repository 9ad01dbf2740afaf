package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/logging"
	"github.com/preston-bernstein/live-scoring-service/internal/providers"
	"github.com/preston-bernstein/live-scoring-service/internal/providers/feed"
	"github.com/preston-bernstein/live-scoring-service/internal/providers/schedule"
)

const feedRetryBackoff = 500 * time.Millisecond

type importOptions struct {
	file    string
	useFeed bool
	feedURL string
	date    string
	dryRun  bool
}

type importResult struct {
	Source   string          `json:"source"`
	Fixtures int             `json:"fixtures"`
	DryRun   bool            `json:"dryRun,omitempty"`
	Created  []matches.Match `json:"created"`
}

// NewImportCommand builds "scorectl import".
func NewImportCommand(root *RootOptions) *cobra.Command {
	opts := &importOptions{}

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Create scheduled matches from a schedule file or fixture feed",
		Long: `Create one SCHEDULED match per fixture.

Every fixture is validated before any match is created, so a bad entry
leaves the store untouched. The feed is read from FEED_URL unless --feed-url
is given.`,
		Example: `  scorectl import --file fixtures.yaml
  scorectl import --file fixtures.yaml --date 2024-03-01 --dry-run
  scorectl import --feed --date 2024-03-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.file, "file", "", "YAML or JSON schedule file")
	cmd.Flags().BoolVar(&opts.useFeed, "feed", false, "Fetch fixtures from the configured feed")
	cmd.Flags().StringVar(&opts.feedURL, "feed-url", "", "Feed base URL (overrides FEED_URL)")
	cmd.Flags().StringVar(&opts.date, "date", "", "Only fixtures on this YYYY-MM-DD day")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Validate fixtures without creating matches")
	cmd.MarkFlagsMutuallyExclusive("file", "feed")
	cmd.MarkFlagsOneRequired("file", "feed")

	return cmd
}

func runImport(cmd *cobra.Command, root *RootOptions, opts *importOptions) error {
	s, err := openSession(cmd, root)
	if err != nil {
		return err
	}
	defer s.Close()

	source, provider, err := opts.provider(s)
	if err != nil {
		return err
	}
	fixtures, err := provider.FetchFixtures(cmd.Context(), opts.date)
	if err != nil {
		return WrapExitError(ExitCommandError, "fetch fixtures", err)
	}
	logging.Debug(s.logger, "fixtures fetched", "source", source, logging.FieldCount, len(fixtures))

	if err := preflight(fixtures); err != nil {
		return s.out.Fail(err)
	}

	result := importResult{Source: source, Fixtures: len(fixtures), DryRun: opts.dryRun, Created: []matches.Match{}}
	if !opts.dryRun {
		created, err := createAll(cmd.Context(), s, fixtures)
		if err != nil {
			return s.out.Fail(err)
		}
		result.Created = created
	}

	return s.out.Success(result, func(w io.Writer) error {
		if result.DryRun {
			_, err := fmt.Fprintf(w, "%d fixtures from %s are valid (dry run)\n", result.Fixtures, result.Source)
			return err
		}
		if _, err := fmt.Fprintf(w, "imported %d of %d fixtures from %s\n", len(result.Created), result.Fixtures, result.Source); err != nil {
			return err
		}
		if len(result.Created) == 0 {
			return nil
		}
		return renderList(w, result.Created)
	})
}

func (o *importOptions) provider(s *session) (string, providers.FixtureProvider, error) {
	if o.file != "" {
		return o.file, schedule.New(o.file), nil
	}

	cfg := s.cfg.Feed
	url := cfg.URL
	if o.feedURL != "" {
		url = o.feedURL
	}
	if url == "" {
		return "", nil, NewExitError(ExitCommandError, "no feed configured: set FEED_URL or pass --feed-url")
	}
	client := feed.NewClient(feed.Config{
		BaseURL:  url,
		APIKey:   cfg.APIKey,
		Timeout:  cfg.Timeout,
		Timezone: cfg.Timezone,
		MaxPages: cfg.MaxPages,
		Logger:   s.logger,
	})
	limited := providers.NewRateLimitedProvider(client, cfg.MinInterval, s.logger)
	return url, providers.NewRetryingProvider(limited, s.logger, "feed", cfg.Retries+1, feedRetryBackoff), nil
}

// preflight runs every fixture through match construction so an invalid entry fails the whole import.
func preflight(fixtures []providers.Fixture) error {
	now := time.Now()
	for i, f := range fixtures {
		if _, err := matches.New("preflight", f.Params(), now); err != nil {
			return matches.Errorf(matches.KindOf(err), "fixture %s: %v", fixtureLabel(f, i), err)
		}
	}
	return nil
}

func createAll(ctx context.Context, s *session, fixtures []providers.Fixture) ([]matches.Match, error) {
	created := make([]matches.Match, 0, len(fixtures))
	for i, f := range fixtures {
		m, err := s.svc.Create(ctx, f.Params())
		if err != nil {
			logging.Error(s.logger, "fixture import stopped", err, logging.FieldCount, len(created))
			return nil, matches.Errorf(matches.KindOf(err), "fixture %s: %v (%d created before failure)", fixtureLabel(f, i), err, len(created))
		}
		created = append(created, m)
	}
	return created, nil
}

func fixtureLabel(f providers.Fixture, i int) string {
	if f.Ref != "" {
		return f.Ref
	}
	return fmt.Sprintf("#%d", i+1)
}
