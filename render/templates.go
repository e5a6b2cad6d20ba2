package render

const templates = `
{{define "star"}}<svg aria-label="star" role="img" height="16" viewBox="0 0 16 16" version="1.1" width="16" data-view-component="true" class="octicon octicon-star"><path fill-rule="evenodd" d="M8 .25a.75.75 0 01.673.418l1.882 3.815 4.21.612a.75.75 0 01.416 1.279l-3.046 2.97.719 4.192a.75.75 0 01-1.088.791L8 12.347l-3.766 1.98a.75.75 0 01-1.088-.79l.72-4.194L.818 6.374a.75.75 0 01.416-1.28l4.21-.611L7.327.668A.75.75 0 018 .25zm0 2.445L6.615 5.5a.75.75 0 01-.564.41l-3.097.45 2.24 2.184a.75.75 0 01.216.664l-.528 3.084 2.769-1.456a.75.75 0 01.698 0l2.77 1.456-.53-3.084a.75.75 0 01.216-.664l2.24-2.183-3.096-.45a.75.75 0 01-.564-.41L8 2.694v.001z"></path></svg>{{end}}

{{define "check"}}<svg id="explore-settings-select-menu-item-icon" aria-hidden="true" height="16" viewBox="0 0 16 16" version="1.1" width="16" data-view-component="true" class="octicon octicon-check select-menu-item-icon mt-1"><path fill-rule="evenodd" d="M13.78 4.22a.75.75 0 010 1.06l-7.25 7.25a.75.75 0 01-1.06 0L2.22 9.28a.75.75 0 011.06-1.06L6 10.94l6.72-6.72a.75.75 0 011.06 0z"></path></svg>{{end}}

{{define "row"}}
    <a class="f6 text-bold Link--primary d-flex no-underline wb-break-all d-inline-block" href="/{{.FullName}}">{{.FullName}}</a>
    <p class="f6 color-fg-muted mb-2" itemprop="description">{{deref .Description}}</p>
    {{- with deref .Language}}
    <span class="mr-2 f6 color-fg-muted text-normal">
        <span class="">
            <span class="repo-language-color" style="background-color: {{languageColor .}}"></span>
            <span itemprop="programmingLanguage">{{.}}</span>
        </span>
    </span>
    {{- end}}
    <span class="f6 color-fg-muted text-normal">
        {{template "star"}}
        {{.StargazersCount}}
    </span>
{{end}}

{{define "message"}}{{if isRateLimit .Message}}API rate limit exceeded. Login <a href="{{.LoginURL}}" target="_blank">GitRec</a> to get a higher rate limit.{{else}}{{.Message}}{{end}}{{end}}

{{define "similar"}}
<div class="BorderGrid-row" id="similar-repositories">
    <div class="BorderGrid-cell">
        <h2 class="h4 mb-3">Related repositories</h2>
        {{- if .View.Message}}
        <div class="text-small color-fg-muted">{{template "message" (msg .View.Message $.LoginURL)}}</div>
        {{- else if .View.Rows}}
        {{- range .View.Rows}}
        <div class="py-2 my-2 color-border-muted">{{template "row" .}}</div>
        {{- end}}
        {{- if .View.HasPrevious}}
        <a id="previous-button" class="text-small" href="#">← Previous</a>
        {{- else}}
        <span id="previous-button" class="text-small color-fg-muted">← Previous</span>
        {{- end}}
        {{- if .View.HasNext}}
        <a id="next-button" class="text-small" style="float: right" href="#">Next →</a>
        {{- else}}
        <span id="next-button" class="text-small color-fg-muted" style="float: right">Next →</span>
        {{- end}}
        {{- else}}
        <div class="text-small color-fg-muted">No similar repositories found</div>
        {{- end}}
    </div>
</div>
{{end}}

{{define "explore"}}
<h2 class="f5 text-bold mb-1" style="display:inline-block">Explore repositories</h2>
<details class="details-reset details-overlay dropdown float-right mt-1">
    <summary class="pinned-items-setting-link Link--muted" aria-haspopup="menu" role="button">
        Explore settings
        <div class="dropdown-caret"></div>
    </summary>
    <details-menu class="dropdown-menu dropdown-menu-sw contributions-setting-menu" role="menu" style="width: 240px">
        <button id="gitrec-button" class="dropdown-item ws-normal btn-link text-left pl-5" role="menuitem">
            {{- if eq .View.Selected "gitrec"}}{{template "check"}}{{end}}
            <div class="text-bold">Explore GitRec</div>
            <span class="f6 mt-1">Explore repositories from GitRec based on starred repositories.</span>
        </button>
        <div role="none" class="dropdown-divider"></div>
        <button id="github-button" class="dropdown-item ws-normal btn-link text-left pl-5" role="menuitem">
            {{- if eq .View.Selected "github"}}{{template "check"}}{{end}}
            <div class="d-flex flex-items-center text-bold">Explore GitHub</div>
            <span class="f6 mt-1">Explore repositories from GitHub official recommendation.</span>
        </button>
    </details-menu>
</details>
{{- if .View.Native}}
{{raw .View.Native}}
{{- else if .View.Message}}
<div class="d-block no-underline f6 mb-3" id="error-message">{{template "message" (msg .View.Message $.LoginURL)}}</div>
{{- else if .View.Rows}}
{{- $rows := .View.Rows}}
{{- range $i, $repo := .View.Rows}}
<div class="py-2 my-2{{if not (last $i $rows)}} border-bottom color-border-muted{{end}}">{{template "row" $repo}}</div>
{{- end}}
{{- if .View.IsAuthenticated}}
<a class="d-block Link--secondary no-underline f6 mb-3" href="#" id="renew-button">Next batch →</a>
{{- else}}
<a class="d-block Link--secondary no-underline f6 mb-3" href="{{$.LoginURL}}" target="_blank">Login GitRec for better recommendation →</a>
{{- end}}
{{- else}}
<div class="d-block color-fg-muted f6 mb-3">No recommended repositories yet</div>
{{- end}}
{{end}}
`
