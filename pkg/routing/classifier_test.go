package routing

import "testing"

func TestClassifyPath(t *testing.T) {
	t.Parallel()

	classifier := NewClassifier([]AllowlistRule{
		{Prefix: "/health", Class: RouteClassOps},
		{Prefix: "/api/invitations/accept", Class: RouteClassPublicAPI},
	})

	cases := []struct {
		path string
		want RouteClass
	}{
		{"/api/issues", RouteClassInternalAPI},
		{"/api", RouteClassInternalAPI},
		{"/api/invitations/accept", RouteClassPublicAPI},
		{"/public/qr/abc123", RouteClassPublicAPI},
		{"/auth/login", RouteClassAuthn},
		{"/health", RouteClassOps},
		{"/healthz", RouteClassUI},
		{"/apiary", RouteClassUI},
		{"/", RouteClassUI},
	}

	for _, tc := range cases {
		if got := classifier.ClassifyPath(tc.path); got != tc.want {
			t.Errorf("ClassifyPath(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestHasPathPrefixOnBoundary(t *testing.T) {
	t.Parallel()

	cases := []struct {
		path   string
		prefix string
		want   bool
	}{
		{"/api/issues", "/api", true},
		{"/api", "/api", true},
		{"/apiary", "/api", false},
		{"/public/qr", "/public/", true},
		{"/anything", "/", true},
		{"/anything", "", false},
	}

	for _, tc := range cases {
		if got := HasPathPrefixOnBoundary(tc.path, tc.prefix); got != tc.want {
			t.Errorf("HasPathPrefixOnBoundary(%q, %q) = %v, want %v", tc.path, tc.prefix, got, tc.want)
		}
	}
}
