package market

import (
	"strings"

	"github.com/xrash/smetrics"
)

const (
	// drawRunner is the exact name the exchange gives the draw selection.
	drawRunner = "The Draw"

	// similarityThreshold is the Jaro-Winkler score a runner name must
	// exceed against a team label to count as a match.
	similarityThreshold = 0.8
)

// MatchRole assigns a runner name to a role given the fixture's home and
// away labels. A runner matches a label if it contains it case-insensitively
// or its Jaro-Winkler similarity exceeds the threshold. Home is tried first,
// then away, then the literal draw runner; first match wins. RoleUnknown
// means the runner could not be placed and the market must be discarded.
func MatchRole(candidate, home, away string) Role {
	if nameMatches(candidate, home) {
		return RoleHome
	}
	if nameMatches(candidate, away) {
		return RoleAway
	}
	if candidate == drawRunner {
		return RoleDraw
	}
	return RoleUnknown
}

func nameMatches(candidate, label string) bool {
	if label == "" {
		return false
	}
	c := strings.ToLower(strings.TrimSpace(candidate))
	l := strings.ToLower(strings.TrimSpace(label))
	if strings.Contains(c, l) {
		return true
	}
	return smetrics.JaroWinkler(c, l, 0.7, 4) > similarityThreshold
}

// eventNameSeparators are the forms the exchange uses between team names
// in an event name, most common first.
var eventNameSeparators = []string{" v ", " vs ", " - "}

// SplitEventName extracts the home and away labels from an exchange event
// name such as "Arsenal v Chelsea".
func SplitEventName(name string) (home, away string, ok bool) {
	name = strings.TrimSpace(name)
	for _, sep := range eventNameSeparators {
		parts := strings.SplitN(name, sep, 2)
		if len(parts) != 2 {
			continue
		}
		home = strings.TrimSpace(parts[0])
		away = strings.TrimSpace(parts[1])
		if home == "" || away == "" {
			return "", "", false
		}
		return home, away, true
	}
	return "", "", false
}
