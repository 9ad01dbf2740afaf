package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
)

// Exit codes for scorectl.
const (
	ExitSuccess      = 0 // command succeeded
	ExitFailure      = 1 // the scoring engine rejected the request
	ExitCommandError = 2 // bad flags, unreadable input or storage unavailable
)

// Output formats accepted by --format.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ExitError carries an exit code out of a command.
type ExitError struct {
	Code    int
	Message string
	Err     error

	reported bool
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from err. Unknown errors map to ExitCommandError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitCommandError
}

// Reported reports whether err was already written to the command output.
func Reported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr) && exitErr.reported
}

// Response is the JSON envelope written in json format.
type Response struct {
	Status string         `json:"status"`
	Data   any            `json:"data,omitempty"`
	Error  *ResponseError `json:"error,omitempty"`
}

// ResponseError mirrors the HTTP error body.
type ResponseError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// OutputFormatter writes command results as text or JSON.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer
}

// Success writes data. text renders the value with the supplied function.
func (f *OutputFormatter) Success(data any, text func(w io.Writer) error) error {
	if f.Format == FormatJSON {
		return json.NewEncoder(f.Writer).Encode(Response{Status: "ok", Data: data})
	}
	return text(f.Writer)
}

// Fail reports a domain error and returns it wrapped with ExitFailure.
func (f *OutputFormatter) Fail(err error) error {
	kind := matches.KindOf(err)
	message := err.Error()
	if de, ok := matches.AsError(err); ok {
		message = de.Message
	}
	code := ExitFailure
	if kind == matches.KindPersistence {
		code = ExitCommandError
	}
	if f.Format == FormatJSON {
		_ = json.NewEncoder(f.Writer).Encode(Response{
			Status: "error",
			Error:  &ResponseError{Kind: string(kind), Message: message},
		})
	} else {
		w := f.ErrWriter
		if w == nil {
			w = f.Writer
		}
		fmt.Fprintf(w, "Error [%s]: %s\n", kind, message)
	}
	return &ExitError{Code: code, Message: message, Err: err, reported: true}
}

func renderMatch(w io.Writer, m matches.Match) error {
	fmt.Fprintf(w, "%s  %s  %s  v%d\n", m.ID, m.Sport, m.Status, m.Version)
	fmt.Fprintf(w, "%s %d - %d %s", m.TeamA.DisplayName(), m.ScoreA, m.ScoreB, m.TeamB.DisplayName())
	if m.Cricket == nil && m.Sets == nil {
		fmt.Fprintf(w, "  (period %d)", m.Period)
	}
	fmt.Fprintln(w)

	if c := m.Cricket; c != nil {
		for _, in := range c.Innings {
			team := m.Team(in.BattingTeam)
			fmt.Fprintf(w, "Innings %d  %s %d/%d (%s ov)", in.Number, team.DisplayName(), in.Runs, in.Wickets, in.OversNotation())
			if in.Number == c.CurrentInnings && !m.IsCompleted() {
				fmt.Fprint(w, "  *")
			}
			fmt.Fprintln(w)
		}
	}
	if s := m.Sets; s != nil {
		played := make([]string, 0, len(s.Details))
		for _, d := range s.Details {
			played = append(played, fmt.Sprintf("%d-%d", d.PointsA, d.PointsB))
		}
		line := "Sets: " + strings.Join(played, ", ")
		if len(played) == 0 {
			line = "Sets: none"
		}
		if cur := s.Current; cur != nil {
			line += fmt.Sprintf("; set %d at %d-%d", cur.SetNumber, cur.PointsA, cur.PointsB)
		}
		fmt.Fprintln(w, line)
	}
	if len(m.Fouls) > 0 {
		cards := m.Cards()
		fmt.Fprintf(w, "Fouls: %d-%d\n", cards.FoulsA, cards.FoulsB)
	}
	if m.Winner != nil {
		fmt.Fprintf(w, "Winner: %s\n", m.Winner.DisplayName())
	}
	return nil
}

func renderList(w io.Writer, list []matches.Match) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no matches")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSPORT\tSTATUS\tSCORE")
	for _, m := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s %d - %d %s\n",
			m.ID, m.Sport, m.Status, m.TeamA.DisplayName(), m.ScoreA, m.ScoreB, m.TeamB.DisplayName())
	}
	return tw.Flush()
}
