package organization_test

import (
	"testing"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
)

func TestNormalizeSubdomain(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "simple", input: "flipperhall", want: "flipperhall"},
		{name: "upper case folded", input: "FlipperHall", want: "flipperhall"},
		{name: "inner hyphen", input: "silver-ball", want: "silver-ball"},
		{name: "digits", input: "pins4ever", want: "pins4ever"},
		{name: "trimmed", input: "  tilt  ", want: "tilt"},
		{name: "too short", input: "ab", wantErr: true},
		{name: "leading hyphen", input: "-tilt", wantErr: true},
		{name: "trailing hyphen", input: "tilt-", wantErr: true},
		{name: "dot rejected", input: "a.b.c", wantErr: true},
		{name: "reserved www", input: "www", wantErr: true},
		{name: "reserved api", input: "API", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := organization.NormalizeSubdomain(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("NormalizeSubdomain(%q): expected error, got %q", tc.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("NormalizeSubdomain(%q): unexpected error: %v", tc.input, err)
			}
			if got != tc.want {
				t.Errorf("NormalizeSubdomain(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}
