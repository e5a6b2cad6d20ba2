package render

import "github.com/gitrec/gitrec-companion/model"

// PageSize is the number of rows displayed at once
const PageSize = 3

// Pruned splits fetched lookups into what gets displayed and what must be
// removed from the recommender index
type Pruned struct {
	Shown   []model.GithubRepository
	Stale   []model.RepositoryRef
	Message string
}

// Prune keeps at most limit live repositories, in order.
// Renamed or removed repositories are reported as stale and never count toward the limit.
// Any other message (rate limit, ...) is an error for the whole result, it is never
// taken as a sign that the repository is gone.
func Prune(lookups []model.RepositoryLookup, limit int) Pruned {
	p := Pruned{Shown: make([]model.GithubRepository, 0, limit)}

	for _, l := range lookups {
		switch {
		case l.Repository != nil:
			if l.Ref != "" && !l.Ref.Matches(l.Repository.FullName) {
				p.Stale = append(p.Stale, l.Ref)
				continue
			}

			if len(p.Shown) < limit {
				repo := *l.Repository
				repo.ItemID = l.Ref
				p.Shown = append(p.Shown, repo)
			}

		case l.Removed():
			if l.Ref != "" {
				p.Stale = append(p.Stale, l.Ref)
			}

		case l.Message != "" && p.Message == "":
			p.Message = l.Message
		}
	}

	return p
}

// LookupsFromRepositories wraps metadata already resolved by the recommender
func LookupsFromRepositories(repos []model.GithubRepository) []model.RepositoryLookup {
	lookups := make([]model.RepositoryLookup, 0, len(repos))
	for i := range repos {
		lookups = append(lookups, model.RepositoryLookup{Ref: repos[i].ItemID, Repository: &repos[i]})
	}

	return lookups
}
