package model

type PageKind string

const (
	PageNone       PageKind = "none"
	PageRepository PageKind = "repository"
	PageDashboard  PageKind = "dashboard"
)

// PageContext is what the current location resolves to
type PageContext struct {
	Kind PageKind
	Ref  RepositoryRef // only set for repository pages
}
