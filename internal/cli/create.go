package cli

import (
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
)

type createOptions struct {
	sport     string
	teamA     string
	teamAName string
	teamB     string
	teamBName string
	maxSets   int
	venue     string
	squadA    []string
	squadB    []string
}

// NewCreateCommand builds "scorectl create".
func NewCreateCommand(root *RootOptions) *cobra.Command {
	opts := &createOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a scheduled match",
		Example: `  scorectl create --sport football --team-a ars --team-a-name Arsenal --team-b che --team-b-name Chelsea
  scorectl create --sport cricket --team-a ind --team-b aus --squad-a "r1:Rohit,v1:Virat" --squad-b "s1:Smith,w1:Warner"
  scorectl create --sport volleyball --team-a x --team-b y --max-sets 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.sport, "sport", "", "Sport, e.g. cricket, football, badminton (required)")
	cmd.Flags().StringVar(&opts.teamA, "team-a", "", "Team A id (required)")
	cmd.Flags().StringVar(&opts.teamAName, "team-a-name", "", "Team A display name")
	cmd.Flags().StringVar(&opts.teamB, "team-b", "", "Team B id (required)")
	cmd.Flags().StringVar(&opts.teamBName, "team-b-name", "", "Team B display name")
	cmd.Flags().IntVar(&opts.maxSets, "max-sets", 0, "Best-of format for set sports (odd)")
	cmd.Flags().StringVar(&opts.venue, "venue", "", "Venue")
	cmd.Flags().StringSliceVar(&opts.squadA, "squad-a", nil, "Cricket squad for team A as id or id:name entries")
	cmd.Flags().StringSliceVar(&opts.squadB, "squad-b", nil, "Cricket squad for team B as id or id:name entries")
	_ = cmd.MarkFlagRequired("sport")
	_ = cmd.MarkFlagRequired("team-a")
	_ = cmd.MarkFlagRequired("team-b")

	return cmd
}

func runCreate(cmd *cobra.Command, root *RootOptions, opts *createOptions) error {
	s, err := openSession(cmd, root)
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := s.svc.Create(cmd.Context(), opts.params())
	if err != nil {
		return s.out.Fail(err)
	}
	return s.out.Success(m, func(w io.Writer) error {
		return renderMatch(w, m)
	})
}

func (o *createOptions) params() matches.NewMatchParams {
	return matches.NewMatchParams{
		Sport:   matches.Sport(o.sport),
		TeamA:   teams.Team{ID: o.teamA, Name: o.teamAName},
		TeamB:   teams.Team{ID: o.teamB, Name: o.teamBName},
		MaxSets: o.maxSets,
		Venue:   o.venue,
		SquadA:  parseSquad(o.squadA),
		SquadB:  parseSquad(o.squadB),
	}
}

// parseSquad reads id or id:name entries. Validation is left to match creation.
func parseSquad(entries []string) []matches.SquadPlayer {
	if len(entries) == 0 {
		return nil
	}
	squad := make([]matches.SquadPlayer, 0, len(entries))
	for _, entry := range entries {
		id, name, _ := strings.Cut(entry, ":")
		squad = append(squad, matches.SquadPlayer{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)})
	}
	return squad
}
