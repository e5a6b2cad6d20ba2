package model

import "fmt"

// ExplorePreference selects the source of the dashboard explore panel
type ExplorePreference string

const (
	ExploreGitrec ExplorePreference = "gitrec"
	ExploreGithub ExplorePreference = "github"

	// ExploreKey is the preference key the value is stored under
	ExploreKey = "explore"
)

// DefaultExplorePreference is used until the user picks one
const DefaultExplorePreference = ExploreGitrec

func ParseExplorePreference(s string) (ExplorePreference, error) {
	switch ExplorePreference(s) {
	case ExploreGitrec, ExploreGithub:
		return ExplorePreference(s), nil
	default:
		return "", fmt.Errorf("%w: unknown explore preference %q", ErrInvalidInput, s)
	}
}
