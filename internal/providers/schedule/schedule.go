// Package schedule reads fixtures from a YAML (or JSON) schedule file.
package schedule

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/preston-bernstein/live-scoring-service/internal/domain/matches"
	"github.com/preston-bernstein/live-scoring-service/internal/domain/teams"
	"github.com/preston-bernstein/live-scoring-service/internal/providers"
	"github.com/preston-bernstein/live-scoring-service/internal/timeutil"
)

const sourceName = "schedule"

type fileDoc struct {
	Fixtures []fixtureDoc `yaml:"fixtures"`
}

type fixtureDoc struct {
	Ref      string      `yaml:"ref"`
	Sport    string      `yaml:"sport"`
	StartsAt string      `yaml:"startsAt"`
	Venue    string      `yaml:"venue"`
	MaxSets  int         `yaml:"maxSets"`
	TeamA    teamDoc     `yaml:"teamA"`
	TeamB    teamDoc     `yaml:"teamB"`
	SquadA   []playerDoc `yaml:"squadA"`
	SquadB   []playerDoc `yaml:"squadB"`
}

type teamDoc struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	ShortName string `yaml:"shortName"`
}

type playerDoc struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Provider serves the fixtures listed in a schedule file.
type Provider struct {
	path     string
	readFile func(string) ([]byte, error)
}

// New creates a provider for the schedule file at path. The file is re-read on every fetch.
func New(path string) *Provider {
	return &Provider{path: path, readFile: os.ReadFile}
}

// FetchFixtures returns the file's fixtures, limited to those starting on date when one is given.
func (p *Provider) FetchFixtures(ctx context.Context, date string) ([]providers.Fixture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if date != "" {
		if _, err := timeutil.ParseDate(date); err != nil {
			return nil, err
		}
	}
	raw, err := p.readFile(p.path)
	if err != nil {
		return nil, fmt.Errorf("read schedule: %w", err)
	}
	all, err := Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.path, err)
	}
	if date == "" {
		return all, nil
	}
	out := make([]providers.Fixture, 0, len(all))
	for _, f := range all {
		if f.StartsAt != nil && timeutil.FormatDate(*f.StartsAt) == date {
			out = append(out, f)
		}
	}
	return out, nil
}

// Parse decodes a schedule document. Unknown keys are rejected.
func Parse(r io.Reader) ([]providers.Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc fileDoc
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return []providers.Fixture{}, nil
		}
		return nil, fmt.Errorf("parse schedule: %w", err)
	}

	fixtures := make([]providers.Fixture, 0, len(doc.Fixtures))
	for i, d := range doc.Fixtures {
		f, err := d.fixture()
		if err != nil {
			return nil, fmt.Errorf("fixture %d: %w", i+1, err)
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

func (d fixtureDoc) fixture() (providers.Fixture, error) {
	sport, ok := matches.ParseSport(d.Sport)
	if !ok {
		return providers.Fixture{}, fmt.Errorf("unknown sport %q", d.Sport)
	}
	f := providers.Fixture{
		Ref:     strings.TrimSpace(d.Ref),
		Source:  sourceName,
		Sport:   sport,
		TeamA:   d.TeamA.team(),
		TeamB:   d.TeamB.team(),
		Venue:   strings.TrimSpace(d.Venue),
		MaxSets: d.MaxSets,
		SquadA:  squad(d.SquadA),
		SquadB:  squad(d.SquadB),
	}
	if raw := strings.TrimSpace(d.StartsAt); raw != "" {
		start, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return providers.Fixture{}, fmt.Errorf("invalid startsAt %q: want RFC 3339", raw)
		}
		start = start.UTC()
		f.StartsAt = &start
	}
	return f, nil
}

func (t teamDoc) team() teams.Team {
	return teams.Team{
		ID:        strings.TrimSpace(t.ID),
		Name:      strings.TrimSpace(t.Name),
		ShortName: strings.TrimSpace(t.ShortName),
	}
}

func squad(players []playerDoc) []matches.SquadPlayer {
	if len(players) == 0 {
		return nil
	}
	out := make([]matches.SquadPlayer, 0, len(players))
	for _, p := range players {
		out = append(out, matches.SquadPlayer{ID: strings.TrimSpace(p.ID), Name: strings.TrimSpace(p.Name)})
	}
	return out
}
