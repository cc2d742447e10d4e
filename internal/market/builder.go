package market

import (
	"fmt"
	"time"
)

// TeamDirectory is the slice of the store the builder needs: exact-name
// team lookup and prediction lookup by fixture key.
type TeamDirectory interface {
	// FindTeamIDs returns every team id whose name matches exactly.
	// Names are ambiguous across competitions, so zero, one or several
	// ids are all normal results.
	FindTeamIDs(name string) ([]int, error)

	// FindPrediction returns the probability triple for a fixture, or
	// nil if the model has not produced one.
	FindPrediction(fixtureDate string, homeTeamID int) (*Prediction, error)
}

// RawRunner is a runner as reported by the exchange catalogue, before any
// reconciliation.
type RawRunner struct {
	SelectionID int64
	Name        string
}

// Event is the exchange event metadata the builder consumes.
type Event struct {
	ID       string
	Name     string
	OpenDate time.Time
}

// Builder reconciles exchange runners with the team database and the
// prediction store to produce canonical markets.
type Builder struct {
	teams TeamDirectory
}

// NewBuilder creates a Builder backed by the given team directory.
func NewBuilder(teams TeamDirectory) *Builder {
	return &Builder{teams: teams}
}

// Build assigns a role to every runner, resolves team identities and a
// prediction, and returns the canonical market. A nil market with a non-nil
// failure is a classified rejection; an error is a store failure.
func (b *Builder) Build(marketID string, event Event, totalMatched float64, raw []RawRunner) (*Market, *BuildFailure, error) {
	fixtureDate := event.OpenDate.Format("2006-01-02")

	home, away, ok := SplitEventName(event.Name)
	if !ok {
		return nil, &BuildFailure{Reason: ReasonUnresolved, RunnerName: event.Name, FixtureDate: fixtureDate}, nil
	}

	if len(raw) != 3 {
		return nil, &BuildFailure{Reason: ReasonUnresolved, RunnerName: event.Name, FixtureDate: fixtureDate}, nil
	}

	// Roles must form a bijection onto home/away/draw. A single runner
	// that cannot be placed, or two runners claiming the same role,
	// invalidates the market; there is no partial market.
	runners := make([]Runner, 0, 3)
	seen := make(map[Role]bool, 3)
	for _, r := range raw {
		role := MatchRole(r.Name, home, away)
		if role == RoleUnknown || seen[role] {
			return nil, &BuildFailure{Reason: ReasonUnresolved, RunnerName: r.Name, FixtureDate: fixtureDate}, nil
		}
		seen[role] = true
		runners = append(runners, Runner{
			SelectionID: r.SelectionID,
			Name:        r.Name,
			Role:        role,
		})
	}

	m := &Market{
		ID:           marketID,
		EventID:      event.ID,
		EventName:    event.Name,
		FixtureDate:  fixtureDate,
		TotalMatched: totalMatched,
		Runners:      runners,
	}

	homeRunner := m.RunnerByRole(RoleHome)
	awayRunner := m.RunnerByRole(RoleAway)

	homeIDs, err := b.teams.FindTeamIDs(homeRunner.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("looking up home team %q: %w", homeRunner.Name, err)
	}
	awayIDs, err := b.teams.FindTeamIDs(awayRunner.Name)
	if err != nil {
		return nil, nil, fmt.Errorf("looking up away team %q: %w", awayRunner.Name, err)
	}
	if len(homeIDs) == 0 || len(awayIDs) == 0 {
		return nil, &BuildFailure{Reason: ReasonNoIdentity, FixtureDate: fixtureDate}, nil
	}
	awayRunner.TeamID = awayIDs[0]

	// Teams can share a display name across leagues, so every candidate
	// home id is tried until one has a prediction. First hit wins.
	for _, id := range homeIDs {
		pred, err := b.teams.FindPrediction(fixtureDate, id)
		if err != nil {
			return nil, nil, fmt.Errorf("looking up prediction for %s team %d: %w", fixtureDate, id, err)
		}
		if pred == nil {
			continue
		}
		homeRunner.TeamID = id
		m.HomeTeamID = id
		m.Prediction = *pred
		return m, nil, nil
	}

	return nil, &BuildFailure{Reason: ReasonNoPrediction, TriedIDs: homeIDs, FixtureDate: fixtureDate}, nil
}
