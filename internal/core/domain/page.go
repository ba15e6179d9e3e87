package domain

import "strings"

// PublicPaths is the allow-list of pages reachable without a credential.
type PublicPaths []string

// Match reports whether path is public. An entry matches exactly or as a
// path suffix ("/app/login.html" matches "/login.html"). The root entry
// "/" only matches exactly.
func (p PublicPaths) Match(path string) bool {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		path = "/"
	}
	for _, entry := range p {
		if entry == "" {
			continue
		}
		if path == entry {
			return true
		}
		if entry == "/" {
			continue
		}
		if !strings.HasPrefix(entry, "/") {
			entry = "/" + entry
		}
		if strings.HasSuffix(path, entry) {
			return true
		}
	}
	return false
}
