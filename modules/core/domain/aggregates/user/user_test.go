package user_test

import (
	"testing"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
)

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	u := user.New("Ada", "Tilt", internet.MustParseEmail("ada@flipperhall.com"), user.UILanguageEN)
	if u.CheckPassword("anything") {
		t.Error("CheckPassword should fail when no password is set")
	}

	withPassword, err := u.SetPassword("multiball-5000")
	if err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if !withPassword.CheckPassword("multiball-5000") {
		t.Error("CheckPassword should accept the configured password")
	}
	if withPassword.CheckPassword("wrong") {
		t.Error("CheckPassword should reject a wrong password")
	}
	if u.PasswordHash() != "" {
		t.Error("SetPassword must not mutate the receiver")
	}
}

func TestFullName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		first string
		last  string
		want  string
	}{
		{"Ada", "Tilt", "Ada Tilt"},
		{"Ada", "", "Ada"},
		{"", "Tilt", "Tilt"},
	}
	for _, tc := range cases {
		u := user.New(tc.first, tc.last, internet.MustParseEmail("x@pinpoint.dev"), user.UILanguageEN)
		if got := u.FullName(); got != tc.want {
			t.Errorf("FullName() = %q, want %q", got, tc.want)
		}
	}
}

func TestSettersReturnCopies(t *testing.T) {
	t.Parallel()

	u := user.New("Ada", "Tilt", internet.MustParseEmail("ada@flipperhall.com"), user.UILanguageEN)
	renamed := u.SetName("Grace", "Nudge")

	if u.FirstName() != "Ada" || u.LastName() != "Tilt" {
		t.Error("SetName must not mutate the receiver")
	}
	if renamed.FirstName() != "Grace" || renamed.LastName() != "Nudge" {
		t.Errorf("SetName result = %q %q", renamed.FirstName(), renamed.LastName())
	}
	if renamed.ID() != u.ID() {
		t.Error("SetName must preserve the identity")
	}
}
