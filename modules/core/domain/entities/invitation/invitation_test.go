package invitation_test

import (
	"testing"
	"time"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/invitation"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
)

func TestIsAcceptable(t *testing.T) {
	t.Parallel()

	email := internet.MustParseEmail("new-keeper@flipperhall.com")

	fresh := invitation.New("org-1", email, "role-1")
	if !fresh.IsAcceptable() {
		t.Error("fresh invitation should be acceptable")
	}

	expired := invitation.New("org-1", email, "role-1",
		invitation.WithExpiresAt(time.Now().Add(-time.Hour)),
	)
	if expired.IsAcceptable() {
		t.Error("expired invitation should not be acceptable")
	}

	revoked := invitation.New("org-1", email, "role-1")
	revoked.Revoke()
	if revoked.IsAcceptable() {
		t.Error("revoked invitation should not be acceptable")
	}

	accepted := invitation.New("org-1", email, "role-1")
	accepted.Accept()
	if accepted.IsAcceptable() {
		t.Error("accepted invitation should not be redeemable twice")
	}
	if accepted.AcceptedAt().IsZero() {
		t.Error("Accept should record the acceptance time")
	}
}

func TestTokensAreUnique(t *testing.T) {
	t.Parallel()

	email := internet.MustParseEmail("a@b.co")
	a := invitation.New("org-1", email, "role-1")
	b := invitation.New("org-1", email, "role-1")
	if a.Token() == "" || a.Token() == b.Token() {
		t.Errorf("tokens should be non-empty and unique, got %q and %q", a.Token(), b.Token())
	}
}
