package middleware

import "testing"

func TestSubdomainOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		host   string
		domain string
		want   string
	}{
		{"plain subdomain", "flipperhall.pinpoint.local", "pinpoint.local", "flipperhall"},
		{"base domain only", "pinpoint.local", "pinpoint.local", ""},
		{"nested subdomain rejected", "a.b.pinpoint.local", "pinpoint.local", ""},
		{"unrelated host", "example.com", "pinpoint.local", ""},
		{"empty host", "", "pinpoint.local", ""},
		{"empty domain", "flipperhall.pinpoint.local", "", ""},
	}

	for _, tc := range cases {
		if got := subdomainOf(tc.host, tc.domain); got != tc.want {
			t.Errorf("%s: subdomainOf(%q, %q) = %q, want %q", tc.name, tc.host, tc.domain, got, tc.want)
		}
	}
}

func TestNormalizeHost(t *testing.T) {
	t.Parallel()

	cases := []struct {
		host string
		want string
	}{
		{"FlipperHall.PinPoint.local:3200", "flipperhall.pinpoint.local"},
		{"pinpoint.local", "pinpoint.local"},
		{"  ", ""},
	}

	for _, tc := range cases {
		if got := normalizeHost(tc.host); got != tc.want {
			t.Errorf("normalizeHost(%q) = %q, want %q", tc.host, got, tc.want)
		}
	}
}
