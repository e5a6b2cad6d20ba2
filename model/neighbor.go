package model

import (
	"bytes"
	"encoding/json"
)

// Score is one candidate returned by the recommender
type Score struct {
	ID    RepositoryRef `json:"Id"`
	Score float64       `json:"score"`
}

// NeighborResult is a page of repositories similar to a given one.
// Repos is only filled by the recommender when the visitor is authenticated on it,
// otherwise the metadata has to be looked up on GitHub.
type NeighborResult struct {
	Scores          []Score            `json:"scores"`
	IsAuthenticated bool               `json:"is_authenticated"`
	Repos           []GithubRepository `json:"repos,omitempty"`
	Message         string             `json:"message,omitempty"`
}

// UnmarshalJSON accepts both the legacy bare list of scores and the object form
func (n *NeighborResult) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var scores []Score
		if err := json.Unmarshal(trimmed, &scores); err != nil {
			return err
		}

		*n = NeighborResult{Scores: scores}
		return nil
	}

	type alias NeighborResult
	var a alias
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return err
	}

	*n = NeighborResult(a)
	return nil
}

// Refs returns the ids of the scores in order
func (n NeighborResult) Refs() []RepositoryRef {
	refs := make([]RepositoryRef, 0, len(n.Scores))
	for _, s := range n.Scores {
		refs = append(refs, s.ID)
	}

	return refs
}
