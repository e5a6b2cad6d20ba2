package service

import (
	"strings"

	"github.com/gitrec/gitrec-companion/model"
)

// DetectPage classifies a location path.
// "/owner/repo" is a repository page, "/" the dashboard, anything else is left alone.
func DetectPage(path string) model.PageContext {
	segments := make([]string, 0, 2)
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}

	switch len(segments) {
	case 0:
		return model.PageContext{Kind: model.PageDashboard}
	case 2:
		return model.PageContext{
			Kind: model.PageRepository,
			Ref:  model.RepositoryRef(segments[0] + ":" + segments[1]),
		}
	default:
		return model.PageContext{Kind: model.PageNone}
	}
}
