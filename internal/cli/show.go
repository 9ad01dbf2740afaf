package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/store"
)

// NewShowCommand builds "scorectl show".
func NewShowCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <match-id>",
		Short: "Print the current state of a match",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.Close()

			m, err := s.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return s.out.Fail(err)
			}
			return s.out.Success(m, func(w io.Writer) error {
				return renderMatch(w, m)
			})
		},
	}
}

type listOptions struct {
	sport  string
	status string
	limit  int
}

// NewListCommand builds "scorectl list".
func NewListCommand(root *RootOptions) *cobra.Command {
	opts := &listOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List matches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.limit < 0 {
				return NewExitError(ExitCommandError, "--limit must not be negative")
			}
			s, err := openSession(cmd, root)
			if err != nil {
				return err
			}
			defer s.Close()

			list, err := s.svc.List(cmd.Context(), store.ListFilter{
				Sport:  matches.Sport(opts.sport),
				Status: matches.Status(strings.ToUpper(strings.TrimSpace(opts.status))),
				Limit:  opts.limit,
			})
			if err != nil {
				return s.out.Fail(err)
			}
			data := struct {
				Matches []matches.Match `json:"matches"`
				Count   int             `json:"count"`
			}{Matches: list, Count: len(list)}
			return s.out.Success(data, func(w io.Writer) error {
				return renderList(w, list)
			})
		},
	}

	cmd.Flags().StringVar(&opts.sport, "sport", "", "Only matches of this sport")
	cmd.Flags().StringVar(&opts.status, "status", "", "Only matches in this status: SCHEDULED, LIVE or COMPLETED")
	cmd.Flags().IntVar(&opts.limit, "limit", 0, "Maximum number of matches (0 for all)")

	return cmd
}

type sportInfo struct {
	Sport      matches.Sport `json:"sport"`
	Model      matches.Model `json:"model"`
	MaxPeriods int           `json:"maxPeriods"`
	MaxSets    int           `json:"maxSets,omitempty"`
}

// NewSportsCommand builds "scorectl sports". It needs no store.
func NewSportsCommand(root *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sports",
		Short: "List supported sports and their scoring models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue := make([]sportInfo, 0, len(matches.Sports()))
			for _, sp := range matches.Sports() {
				catalogue = append(catalogue, sportInfo{
					Sport:      sp,
					Model:      sp.Model(),
					MaxPeriods: sp.MaxPeriods(),
					MaxSets:    sp.DefaultMaxSets(),
				})
			}
			return root.formatter(cmd).Success(catalogue, func(w io.Writer) error {
				for _, info := range catalogue {
					line := fmt.Sprintf("%-12s %-8s periods=%d", info.Sport, info.Model, info.MaxPeriods)
					if info.MaxSets > 0 {
						line += fmt.Sprintf(" best-of=%d", info.MaxSets)
					}
					fmt.Fprintln(w, line)
				}
				return nil
			})
		},
	}
}
