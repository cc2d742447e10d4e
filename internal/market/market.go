package market

// Role is the outcome a runner represents in a match-odds market.
type Role string

const (
	RoleHome    Role = "home"
	RoleAway    Role = "away"
	RoleDraw    Role = "draw"
	RoleUnknown Role = ""
)

// Runner is one tradable entrant in a match-odds market. Prices are zero
// until the live market book fills them; zero means no liquidity on that side.
type Runner struct {
	SelectionID int64
	Name        string
	TeamID      int // 0 = unresolved
	Role        Role
	BackPrice   float64
	BackSize    float64
	LayPrice    float64
	LaySize     float64
}

// Market is one exchange match-odds market for a single fixture, with the
// three runners' roles forming a bijection onto home/away/draw.
type Market struct {
	ID           string
	EventID      string
	EventName    string
	FixtureDate  string // "2006-01-02", the fixture key together with HomeTeamID
	TotalMatched float64
	Runners      []Runner

	// HomeTeamID is the candidate home id that resolved a prediction.
	HomeTeamID int
	Prediction Prediction
}

// RunnerByRole returns the runner holding the given role.
func (m *Market) RunnerByRole(role Role) *Runner {
	for i := range m.Runners {
		if m.Runners[i].Role == role {
			return &m.Runners[i]
		}
	}
	return nil
}

// Prediction is a model-produced probability triple for one fixture.
// The probabilities are non-negative and need not sum to 1.
type Prediction struct {
	HomeWin float64
	AwayWin float64
	Draw    float64
}

// ByRole returns the predicted probability of the outcome the role represents.
func (p Prediction) ByRole(role Role) float64 {
	switch role {
	case RoleHome:
		return p.HomeWin
	case RoleAway:
		return p.AwayWin
	case RoleDraw:
		return p.Draw
	}
	return 0
}

// AgainstRole returns the predicted probability that the role's outcome
// does not happen: the sum of the other two outcomes.
func (p Prediction) AgainstRole(role Role) float64 {
	return p.HomeWin + p.AwayWin + p.Draw - p.ByRole(role)
}

// FailureReason classifies why a market could not be built.
type FailureReason string

const (
	// ReasonUnresolved: a runner could not be assigned a role, or the
	// roles did not form a bijection. Invalidates the whole market.
	ReasonUnresolved FailureReason = "unresolved"

	// ReasonNoIdentity: no team id found for the home or away name.
	// Distinct from a missing prediction so operators can fix team data.
	ReasonNoIdentity FailureReason = "no_identity"

	// ReasonNoPrediction: identity resolved but no model output for the
	// fixture yet. Expected and frequent.
	ReasonNoPrediction FailureReason = "no_prediction"
)

// BuildFailure reports why Build produced no market, with enough context
// to diagnose data gaps.
type BuildFailure struct {
	Reason      FailureReason
	RunnerName  string // set for ReasonUnresolved
	TriedIDs    []int  // candidate home ids attempted, set for ReasonNoPrediction
	FixtureDate string
}
