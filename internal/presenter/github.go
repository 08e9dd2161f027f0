package presenter

import "strings"

type GitHubLink struct {
	Username string `json:"username"`
	URL      string `json:"url"`
}

// ParseGitHub turns the free-form github field of a resume into a profile
// link. It reports false when the field is blank.
func ParseGitHub(raw string) (GitHubLink, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return GitHubLink{}, false
	}

	url := raw
	if !strings.HasPrefix(raw, "http") {
		url = "https://" + raw
	}

	parts := strings.Split(raw, "/")
	username := parts[len(parts)-1]
	if username == "" && len(parts) > 1 {
		username = parts[len(parts)-2]
	}
	if username == "" || username == "github.com" {
		username = raw
	}

	return GitHubLink{Username: username, URL: url}, true
}
