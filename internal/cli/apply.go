package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

type applyOptions struct {
	event  string
	file   string
	action string
	team   string
	points int
}

// NewApplyCommand builds "scorectl apply".
func NewApplyCommand(root *RootOptions) *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <match-id>",
		Short: "Apply one scoring event to a match",
		Long: `Apply one scoring event to a match.

The event is read from --event, from --file (use - for stdin), or assembled
from --action, --team and --points for the common increments.`,
		Example: `  scorectl apply m-1 --action score --team A --points 1
  scorectl apply m-1 --event '{"runs":4}'
  scorectl apply m-1 --file over.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.event, "event", "", "Event as a JSON object")
	cmd.Flags().StringVar(&opts.file, "file", "", "Read the event JSON from a file, - for stdin")
	cmd.Flags().StringVar(&opts.action, "action", "", "Action name, e.g. score, setPoints, undo")
	cmd.Flags().StringVar(&opts.team, "team", "", "Side the action applies to: A or B")
	cmd.Flags().IntVar(&opts.points, "points", 0, "Points for score or setPoints")
	cmd.MarkFlagsMutuallyExclusive("event", "file", "action")

	return cmd
}

func runApply(cmd *cobra.Command, root *RootOptions, opts *applyOptions, matchID string) error {
	ev, err := opts.build(cmd)
	if err != nil {
		return err
	}
	if ev.MatchID != "" && ev.MatchID != matchID {
		return NewExitError(ExitCommandError, fmt.Sprintf("event matchId %q does not match %q", ev.MatchID, matchID))
	}
	ev.MatchID = matchID

	s, err := openSession(cmd, root)
	if err != nil {
		return err
	}
	defer s.Close()

	m, err := s.svc.Apply(cmd.Context(), ev)
	if err != nil {
		return s.out.Fail(err)
	}
	return s.out.Success(m, func(w io.Writer) error {
		return renderMatch(w, m)
	})
}

func (o *applyOptions) build(cmd *cobra.Command) (matches.Event, error) {
	switch {
	case o.event != "":
		return decodeEvent([]byte(o.event))
	case o.file != "":
		raw, err := o.readFile(cmd)
		if err != nil {
			return matches.Event{}, WrapExitError(ExitCommandError, "read event", err)
		}
		return decodeEvent(raw)
	case o.action != "":
		ev := matches.Event{Action: matches.Action(o.action), Team: o.team}
		if cmd.Flags().Changed("points") {
			points := o.points
			ev.Points = &points
		}
		return ev, nil
	}
	return matches.Event{}, NewExitError(ExitCommandError, "one of --event, --file or --action is required")
}

func (o *applyOptions) readFile(cmd *cobra.Command) ([]byte, error) {
	if o.file == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(o.file)
}

func decodeEvent(raw []byte) (matches.Event, error) {
	var ev matches.Event
	if len(bytes.TrimSpace(raw)) == 0 {
		return ev, NewExitError(ExitCommandError, "event is empty")
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		return ev, WrapExitError(ExitCommandError, "invalid event JSON", err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return ev, NewExitError(ExitCommandError, "event must be a single JSON object")
	}
	ev.MatchID = strings.TrimSpace(ev.MatchID)
	return ev, nil
}
