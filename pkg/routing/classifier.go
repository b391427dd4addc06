package routing

import (
	"sort"
	"strings"
)

type Classifier struct {
	rules []AllowlistRule
}

func NewClassifier(rules []AllowlistRule) *Classifier {
	copied := make([]AllowlistRule, 0, len(rules))
	for _, rule := range rules {
		rule.Prefix = strings.TrimSpace(rule.Prefix)
		if rule.Prefix == "" {
			continue
		}
		copied = append(copied, rule)
	}

	sort.SliceStable(copied, func(i, j int) bool {
		return len(copied[i].Prefix) > len(copied[j].Prefix)
	})

	return &Classifier{
		rules: copied,
	}
}

func (c *Classifier) MatchAllowlist(path string) (RouteClass, bool) {
	for _, rule := range c.rules {
		if HasPathPrefixOnBoundary(path, rule.Prefix) {
			return rule.Class, true
		}
	}
	return "", false
}

// ClassifyPath resolves the route class for a request path. Allowlist rules
// win; otherwise the built-in prefixes apply: /public is the anonymous API,
// /api the session API, /auth the login surface.
func (c *Classifier) ClassifyPath(path string) RouteClass {
	if class, ok := c.MatchAllowlist(path); ok {
		return class
	}

	if HasPathPrefixOnBoundary(path, "/public") {
		return RouteClassPublicAPI
	}
	if HasPathPrefixOnBoundary(path, "/api") {
		return RouteClassInternalAPI
	}
	if HasPathPrefixOnBoundary(path, "/auth") {
		return RouteClassAuthn
	}
	return RouteClassUI
}

// IsAPI reports whether the class expects JSON responses.
func (c RouteClass) IsAPI() bool {
	return c == RouteClassInternalAPI || c == RouteClassPublicAPI
}

func HasPathPrefixOnBoundary(path, prefix string) bool {
	if prefix == "" {
		return false
	}

	if prefix == "/" {
		return strings.HasPrefix(path, "/")
	}

	if !strings.HasPrefix(path, prefix) {
		return false
	}

	if len(path) == len(prefix) {
		return true
	}

	if strings.HasSuffix(prefix, "/") {
		return true
	}

	return path[len(prefix)] == '/'
}
