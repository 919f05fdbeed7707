package github

import (
	"net/url"
	"strings"
)

// RawIssue is a single record returned by the Search API. The recommendation
// pipeline only reads it; normalization into the canonical issue entity
// happens outside this package.
type RawIssue struct {
	ID            int64   `json:"id,omitempty"`
	Number        int     `json:"number,omitempty"`
	Title         string  `json:"title,omitempty"`
	Body          string  `json:"body,omitempty"`
	HTMLURL       string  `json:"html_url,omitempty"`
	RepositoryURL string  `json:"repository_url,omitempty"`
	State         string  `json:"state,omitempty"`
	Comments      int     `json:"comments,omitempty"`
	CreatedAt     string  `json:"created_at,omitempty"`
	UpdatedAt     string  `json:"updated_at,omitempty"`
	Labels        []Label `json:"labels,omitempty"`
	Assignee      *User   `json:"assignee,omitempty"`
	// PullRequest is set when the record represents a pull request rather
	// than an issue. Such records are discarded before normalization.
	PullRequest map[string]interface{} `json:"pull_request,omitempty"`
}

type Label struct {
	Name        string `json:"name,omitempty"`
	Color       string `json:"color,omitempty"`
	Description string `json:"description,omitempty"`
}

type User struct {
	Login   string `json:"login,omitempty"`
	HTMLURL string `json:"html_url,omitempty"`
}

type RawIssues struct {
	Items []*RawIssue
}

func (r *RawIssues) Len() int {
	return len(r.Items)
}

func (i *RawIssue) IsPullRequest() bool {
	return i.PullRequest != nil
}

func (i *RawIssue) LabelNames() []string {
	names := make([]string, 0, len(i.Labels))
	for _, label := range i.Labels {
		names = append(names, label.Name)
	}
	return names
}

// RepoOwnerName splits the repository API URL into owner and name. The search
// response carries no embedded repository object, only this URL.
func (i *RawIssue) RepoOwnerName() (string, string) {
	raw := strings.TrimSpace(i.RepositoryURL)
	if raw == "" {
		return "", ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", ""
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 {
		return "", ""
	}

	return parts[len(parts)-2], parts[len(parts)-1]
}
