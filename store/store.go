// Package store persists the user preferences of the companion.
package store

import (
	"context"

	"github.com/gitrec/gitrec-companion/model"
)

// LocalProfile is used when the viewer login is not known
const LocalProfile = "local"

type PreferenceStore interface {
	Get(ctx context.Context, profile, key string) (string, bool, error)
	Set(ctx context.Context, profile, key, value string) error
	Close() error
}

// ExplorePreference reads the explore preference of a profile, defaulting to gitrec.
// A stored value that is not a valid preference is ignored.
func ExplorePreference(ctx context.Context, s PreferenceStore, profile string) (model.ExplorePreference, error) {
	value, found, err := s.Get(ctx, profileOrLocal(profile), model.ExploreKey)
	if err != nil {
		return "", err
	}

	if !found {
		return model.DefaultExplorePreference, nil
	}

	pref, err := model.ParseExplorePreference(value)
	if err != nil {
		return model.DefaultExplorePreference, nil
	}

	return pref, nil
}

func SetExplorePreference(ctx context.Context, s PreferenceStore, profile string, pref model.ExplorePreference) error {
	return s.Set(ctx, profileOrLocal(profile), model.ExploreKey, string(pref))
}

func profileOrLocal(profile string) string {
	if profile == "" {
		return LocalProfile
	}

	return profile
}
