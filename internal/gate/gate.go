// Package gate decides whether a page navigation may proceed given the
// viewer's authentication state.
package gate

import (
	"net/url"
	"strings"
)

const (
	HomePath      = "/"
	DashboardPath = "/dashboard"

	// RedirectParam carries the originally requested path to the login page.
	RedirectParam = "redirect"
)

var publicPaths = map[string]struct{}{
	"/":       {},
	"/login":  {},
	"/signup": {},
}

const publicPrefix = "/auth/"

var infrastructureMarkers = []string{"_next", "api", "favicon.ico"}

type Action int

const (
	Allow Action = iota
	Redirect
)

// Session is the authenticated viewer. A nil *Session means anonymous.
type Session struct {
	UserID string
	Email  string
}

type Decision struct {
	Action Action
	Path   string
	Query  url.Values
}

// Location renders the redirect target, e.g. "/?redirect=%2Ftasks".
func (d Decision) Location() string {
	if len(d.Query) == 0 {
		return d.Path
	}
	return d.Path + "?" + d.Query.Encode()
}

func allow() Decision {
	return Decision{Action: Allow}
}

// Evaluate never fails: every input yields a decision.
func Evaluate(session *Session, path string) Decision {
	if IsInfrastructure(path) {
		return allow()
	}

	if session == nil {
		if IsPublic(path) {
			return allow()
		}
		return Decision{
			Action: Redirect,
			Path:   HomePath,
			Query:  url.Values{RedirectParam: []string{path}},
		}
	}

	if path == HomePath {
		return Decision{Action: Redirect, Path: DashboardPath}
	}
	return allow()
}

func IsPublic(path string) bool {
	if _, ok := publicPaths[path]; ok {
		return true
	}
	return strings.HasPrefix(path, publicPrefix)
}

// IsInfrastructure reports whether path is an asset or API route that is
// never gated.
func IsInfrastructure(path string) bool {
	for _, marker := range infrastructureMarkers {
		if strings.Contains(path, marker) {
			return true
		}
	}
	return false
}
