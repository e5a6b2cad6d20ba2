package model

import "strings"

// MountRequest is sent by the content script on page load and on every history change
type MountRequest struct {
	Path  string `json:"path" binding:"required"`
	Login string `json:"login"`

	// outer HTML of GitHub's own explore panel, only read on the first dashboard mount
	NativeExplore *string `json:"native_explore"`
}

// NormalizedPath drops the query string and the fragment so that
// "/owner/repo?tab=readme" and "/owner/repo" resolve to the same page
func (r MountRequest) NormalizedPath() string {
	path := r.Path
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}

	return path
}

type PreferenceRequest struct {
	Explore string `json:"explore" binding:"required"`
}

type FragmentResponse struct {
	Kind PageKind `json:"kind,omitempty"`
	HTML string   `json:"html"`
}
