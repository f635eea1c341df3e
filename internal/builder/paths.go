package builder

import (
	"net/url"
	"path"
	"strings"
)

// buildOutputPath maps a route to the file that serves it. Routes become
// directories holding an index.html so the generated site works without
// server-side rewrite rules.
func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), "/")
	if clean == "" {
		return "index.html"
	}
	return path.Join(clean, "index.html")
}

func joinOutputPath(base string, rel string) string {
	if strings.TrimSpace(base) == "" {
		return strings.TrimLeft(rel, "/")
	}
	return path.Join(strings.Trim(base, "/"), rel)
}

// routeFromLocation extracts the path component of an absolute URL so disk
// layout follows the configured permalinks.
func routeFromLocation(location string) string {
	parsed, err := url.Parse(strings.TrimSpace(location))
	if err != nil || parsed.Path == "" {
		return "/"
	}
	return parsed.Path
}
