package market

import (
	"errors"
	"testing"
	"time"
)

// fakeDirectory is an in-memory TeamDirectory for builder tests.
type fakeDirectory struct {
	teams       map[string][]int
	predictions map[string]map[int]Prediction // fixtureDate -> homeTeamID
	err         error
}

func (f *fakeDirectory) FindTeamIDs(name string) ([]int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.teams[name], nil
}

func (f *fakeDirectory) FindPrediction(fixtureDate string, homeTeamID int) (*Prediction, error) {
	if f.err != nil {
		return nil, f.err
	}
	if p, ok := f.predictions[fixtureDate][homeTeamID]; ok {
		return &p, nil
	}
	return nil, nil
}

var testEvent = Event{
	ID:       "30123456",
	Name:     "Arsenal v Chelsea",
	OpenDate: time.Date(2026, 9, 5, 15, 0, 0, 0, time.UTC),
}

func testRunners() []RawRunner {
	return []RawRunner{
		{SelectionID: 101, Name: "Arsenal"},
		{SelectionID: 102, Name: "Chelsea"},
		{SelectionID: 103, Name: "The Draw"},
	}
}

func TestBuildResolvesRolesAndPrediction(t *testing.T) {
	dir := &fakeDirectory{
		teams: map[string][]int{"Arsenal": {42}, "Chelsea": {7}},
		predictions: map[string]map[int]Prediction{
			"2026-09-05": {42: {HomeWin: 0.5, AwayWin: 0.3, Draw: 0.2}},
		},
	}

	m, failure, err := NewBuilder(dir).Build("1.234", testEvent, 15000, testRunners())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if failure != nil {
		t.Fatalf("Build returned failure %+v", failure)
	}

	if m.FixtureDate != "2026-09-05" {
		t.Errorf("FixtureDate = %q, want %q", m.FixtureDate, "2026-09-05")
	}
	if m.HomeTeamID != 42 {
		t.Errorf("HomeTeamID = %d, want 42", m.HomeTeamID)
	}
	if m.Prediction.HomeWin != 0.5 {
		t.Errorf("Prediction.HomeWin = %v, want 0.5", m.Prediction.HomeWin)
	}

	home := m.RunnerByRole(RoleHome)
	away := m.RunnerByRole(RoleAway)
	draw := m.RunnerByRole(RoleDraw)
	if home == nil || away == nil || draw == nil {
		t.Fatalf("roles not bijective: %+v", m.Runners)
	}
	if home.TeamID != 42 {
		t.Errorf("home TeamID = %d, want 42", home.TeamID)
	}
	if away.TeamID != 7 {
		t.Errorf("away TeamID = %d, want 7", away.TeamID)
	}
	if draw.TeamID != 0 {
		t.Errorf("draw TeamID = %d, want 0", draw.TeamID)
	}
	if home.BackPrice != 0 || home.LayPrice != 0 {
		t.Errorf("prices should be zero before the book fills them, got %+v", home)
	}
}

func TestBuildUnassignableRunnerFailsWholeMarket(t *testing.T) {
	dir := &fakeDirectory{teams: map[string][]int{"Arsenal": {42}, "Chelsea": {7}}}
	runners := testRunners()
	runners[1].Name = "Real Madrid" // matches neither label nor the draw literal

	m, failure, err := NewBuilder(dir).Build("1.234", testEvent, 0, runners)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if m != nil {
		t.Fatalf("expected no market, got %+v", m)
	}
	if failure == nil || failure.Reason != ReasonUnresolved {
		t.Fatalf("failure = %+v, want ReasonUnresolved", failure)
	}
	if failure.RunnerName != "Real Madrid" {
		t.Errorf("RunnerName = %q, want %q", failure.RunnerName, "Real Madrid")
	}
}

func TestBuildDuplicateRoleFails(t *testing.T) {
	dir := &fakeDirectory{teams: map[string][]int{"Arsenal": {42}}}
	runners := testRunners()
	runners[1].Name = "Arsenal Reserves" // contains the home label too

	_, failure, err := NewBuilder(dir).Build("1.234", testEvent, 0, runners)
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if failure == nil || failure.Reason != ReasonUnresolved {
		t.Fatalf("failure = %+v, want ReasonUnresolved", failure)
	}
}

func TestBuildWrongRunnerCountFails(t *testing.T) {
	dir := &fakeDirectory{}
	_, failure, err := NewBuilder(dir).Build("1.234", testEvent, 0, testRunners()[:2])
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if failure == nil || failure.Reason != ReasonUnresolved {
		t.Fatalf("failure = %+v, want ReasonUnresolved", failure)
	}
}

func TestBuildNoIdentity(t *testing.T) {
	// Away name unknown to the team database: distinct failure from a
	// missing prediction.
	dir := &fakeDirectory{teams: map[string][]int{"Arsenal": {42}}}

	m, failure, err := NewBuilder(dir).Build("1.234", testEvent, 0, testRunners())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if m != nil {
		t.Fatalf("expected no market, got %+v", m)
	}
	if failure == nil || failure.Reason != ReasonNoIdentity {
		t.Fatalf("failure = %+v, want ReasonNoIdentity", failure)
	}
}

func TestBuildTriesEveryCandidateHomeID(t *testing.T) {
	// Two teams share the display name; only the second has a prediction.
	dir := &fakeDirectory{
		teams: map[string][]int{"Arsenal": {42, 43}, "Chelsea": {7}},
		predictions: map[string]map[int]Prediction{
			"2026-09-05": {43: {HomeWin: 0.6, AwayWin: 0.2, Draw: 0.2}},
		},
	}

	m, failure, err := NewBuilder(dir).Build("1.234", testEvent, 0, testRunners())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if failure != nil {
		t.Fatalf("Build returned failure %+v", failure)
	}
	if m.HomeTeamID != 43 {
		t.Errorf("HomeTeamID = %d, want 43 (second candidate)", m.HomeTeamID)
	}
}

func TestBuildNoPredictionCarriesTriedIDs(t *testing.T) {
	dir := &fakeDirectory{
		teams: map[string][]int{"Arsenal": {42, 43}, "Chelsea": {7}},
	}

	m, failure, err := NewBuilder(dir).Build("1.234", testEvent, 0, testRunners())
	if err != nil {
		t.Fatalf("Build returned error: %v", err)
	}
	if m != nil {
		t.Fatalf("expected no market, got %+v", m)
	}
	if failure == nil || failure.Reason != ReasonNoPrediction {
		t.Fatalf("failure = %+v, want ReasonNoPrediction", failure)
	}
	if len(failure.TriedIDs) != 2 || failure.TriedIDs[0] != 42 || failure.TriedIDs[1] != 43 {
		t.Errorf("TriedIDs = %v, want [42 43]", failure.TriedIDs)
	}
	if failure.FixtureDate != "2026-09-05" {
		t.Errorf("FixtureDate = %q, want %q", failure.FixtureDate, "2026-09-05")
	}
}

func TestBuildStoreErrorPropagates(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("store down")}

	_, failure, err := NewBuilder(dir).Build("1.234", testEvent, 0, testRunners())
	if err == nil {
		t.Fatal("expected error from store")
	}
	if failure != nil {
		t.Errorf("failure = %+v, want nil on store error", failure)
	}
}
