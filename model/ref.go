package model

import (
	"fmt"
	"strings"
)

// RepositoryRef identifies a repository in the recommender index as "owner:name".
// GitHub owner names cannot contain a colon, so the transform to and from the
// "owner/name" form is lossless.
type RepositoryRef string

// NewRef builds a ref from its two parts
func NewRef(owner, name string) (RepositoryRef, error) {
	if owner == "" || name == "" {
		return "", fmt.Errorf("%w: owner or name is empty", ErrInvalidInput)
	}

	if strings.ContainsAny(owner, ":/") || strings.ContainsAny(name, ":/") {
		return "", fmt.Errorf("%w: owner or name contains a separator", ErrInvalidInput)
	}

	return RepositoryRef(owner + ":" + name), nil
}

// ParseRef accepts both "owner:name" and "owner/name"
func ParseRef(s string) (RepositoryRef, error) {
	sep := ":"
	if !strings.Contains(s, sep) {
		sep = "/"
	}

	owner, name, found := strings.Cut(strings.TrimSpace(s), sep)
	if !found {
		return "", fmt.Errorf("%w: %q is not a repository reference", ErrInvalidInput, s)
	}

	return NewRef(owner, name)
}

// ToColon converts a GitHub full name "owner/name" into a ref
func ToColon(fullName string) RepositoryRef {
	return RepositoryRef(strings.Replace(fullName, "/", ":", 1))
}

// ToSlash converts the ref back to the GitHub full name form
func (r RepositoryRef) ToSlash() string {
	return strings.Replace(string(r), ":", "/", 1)
}

// Matches reports whether a full name fetched from GitHub still designates this ref.
// A mismatch means the repository has been renamed since it was indexed.
func (r RepositoryRef) Matches(fullName string) bool {
	return strings.EqualFold(string(r), string(ToColon(fullName)))
}

func (r RepositoryRef) String() string {
	return string(r)
}

// RefsFromFullNames maps GitHub full names to refs, keeping the order
func RefsFromFullNames(fullNames []string) []RepositoryRef {
	refs := make([]RepositoryRef, 0, len(fullNames))
	for _, n := range fullNames {
		refs = append(refs, ToColon(n))
	}

	return refs
}
