package model

// GithubRepository is the subset of GitHub repository metadata used to render a row
type GithubRepository struct {
	ItemID          RepositoryRef `json:"item_id,omitempty"`
	FullName        string        `json:"full_name"`
	Description     *string       `json:"description"`
	HTMLURL         string        `json:"html_url,omitempty"`
	Language        *string       `json:"language"` // nil for repositories without detected language
	StargazersCount int           `json:"stargazers_count"`
}

// RepositoryLookup is the outcome of one GitHub lookup.
// Either Repository is set, or Message carries what GitHub answered instead
// ("Not Found", "API rate limit exceeded for ...", ...).
type RepositoryLookup struct {
	Ref        RepositoryRef
	Repository *GithubRepository
	Message    string
}

// MessageNotFound is what GitHub answers for removed repositories
const MessageNotFound = "Not Found"

// Removed reports whether GitHub says the repository does not exist anymore
func (l RepositoryLookup) Removed() bool {
	return l.Repository == nil && l.Message == MessageNotFound
}
