package model

// RecommendationResult is a batch of suggested repositories for the explore panel
type RecommendationResult struct {
	Items           []RepositoryRef    `json:"items"`
	IsAuthenticated bool               `json:"is_authenticated"`
	Message         string             `json:"message,omitempty"`
	Repos           []GithubRepository `json:"repos,omitempty"`
}

// StarredRepositories is the list of repositories a GitHub user starred,
// or the message GitHub answered instead
type StarredRepositories struct {
	Items   []RepositoryRef
	Message string
}
