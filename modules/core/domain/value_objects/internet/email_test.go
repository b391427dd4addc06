package internet_test

import (
	"testing"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
)

func TestNewEmail(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "valid", input: "tech@flipperhall.com", want: "tech@flipperhall.com"},
		{name: "upper case normalized", input: "Tech@FlipperHall.COM", want: "tech@flipperhall.com"},
		{name: "surrounding whitespace", input: "  ops@pinpoint.dev ", want: "ops@pinpoint.dev"},
		{name: "missing at sign", input: "not-an-email", wantErr: true},
		{name: "display name rejected", input: "Ops <ops@pinpoint.dev>", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := internet.NewEmail(tc.input)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("NewEmail(%q): expected error, got %q", tc.input, got.Value())
				}
				return
			}
			if err != nil {
				t.Fatalf("NewEmail(%q): unexpected error: %v", tc.input, err)
			}
			if got.Value() != tc.want {
				t.Errorf("NewEmail(%q) = %q, want %q", tc.input, got.Value(), tc.want)
			}
		})
	}
}

func TestEmailDomain(t *testing.T) {
	t.Parallel()

	e := internet.MustParseEmail("keeper@silverball.club")
	if e.Domain() != "silverball.club" {
		t.Errorf("Domain() = %q, want %q", e.Domain(), "silverball.club")
	}
}
