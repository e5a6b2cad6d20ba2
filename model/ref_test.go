package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRefTransformIsItsOwnInverse(t *testing.T) {
	for _, fullName := range []string{"gorse-io/gorse", "a/b", "Owner/Repo.With-Dots", "x/y_z"} {
		assert.Equal(t, fullName, ToColon(fullName).ToSlash())
	}

	assert.Equal(t, RepositoryRef("gorse-io:gorse"), ToColon("gorse-io/gorse"))
}

func TestParseRef(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    RepositoryRef
		expectError bool
	}{
		{name: "colon form", input: "gorse-io:gorse", expected: "gorse-io:gorse"},
		{name: "slash form", input: "gorse-io/gorse", expected: "gorse-io:gorse"},
		{name: "surrounding spaces", input: " a/b ", expected: "a:b"},
		{name: "no separator", input: "gorse", expectError: true},
		{name: "empty owner", input: ":gorse", expectError: true},
		{name: "empty name", input: "gorse-io/", expectError: true},
		{name: "too many segments", input: "a/b/c", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ref, err := ParseRef(tt.input)

			if tt.expectError {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, ref)
		})
	}
}

func TestRefMatches(t *testing.T) {
	ref := RepositoryRef("gorse-io:gorse")

	assert.True(t, ref.Matches("gorse-io/gorse"))
	assert.True(t, ref.Matches("Gorse-IO/Gorse"))
	assert.False(t, ref.Matches("gorse-io/gorse-renamed"))
	assert.False(t, ref.Matches(""))
}

func TestNeighborResultDecodesBothForms(t *testing.T) {
	var legacy NeighborResult
	require.NoError(t, json.Unmarshal([]byte(`[{"Id":"a:b","score":0.5}]`), &legacy))
	assert.Equal(t, []RepositoryRef{"a:b"}, legacy.Refs())
	assert.False(t, legacy.IsAuthenticated)

	var current NeighborResult
	body := `{"is_authenticated":true,"scores":[{"Id":"a:b","score":1},{"Id":"c:d","score":0.2}],"repos":[{"item_id":"a:b","full_name":"a/b","stargazers_count":3}]}`
	require.NoError(t, json.Unmarshal([]byte(body), &current))
	assert.True(t, current.IsAuthenticated)
	assert.Equal(t, []RepositoryRef{"a:b", "c:d"}, current.Refs())
	require.Len(t, current.Repos, 1)
	assert.Equal(t, 3, current.Repos[0].StargazersCount)
}

func TestParseExplorePreference(t *testing.T) {
	pref, err := ParseExplorePreference("github")
	require.NoError(t, err)
	assert.Equal(t, ExploreGithub, pref)

	_, err = ParseExplorePreference("gitlab")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMountRequestNormalizedPath(t *testing.T) {
	assert.Equal(t, "/gorse-io/gorse", MountRequest{Path: "/gorse-io/gorse?tab=readme#top"}.NormalizedPath())
	assert.Equal(t, "/", MountRequest{Path: "/#feed"}.NormalizedPath())
}

func TestNewAPIError(t *testing.T) {
	_, err := ParseRef("nope")
	assert.Equal(t, "INVALID_INPUT", NewAPIError(err).Code)
	assert.Equal(t, "UNKNOWN_SESSION", NewAPIError(ErrUnknownSession).Code)
	assert.Equal(t, "GENERIC_ERROR", NewAPIError(assert.AnError).Code)
}
