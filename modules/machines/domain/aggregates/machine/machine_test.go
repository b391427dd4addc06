package machine_test

import (
	"testing"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/location"
)

func TestNewMintsIdentityAndToken(t *testing.T) {
	t.Parallel()

	m := machine.New("org-1", "model-1", "loc-1")
	if m.ID() == "" {
		t.Error("New should mint an id")
	}
	if m.QRToken() == "" {
		t.Error("New should mint a QR token")
	}
	if m.QRToken() == m.ID() {
		t.Error("QR token and id must be independent")
	}
	if m.OwnerID() != "" {
		t.Error("a new machine belongs to the collective until an owner is assigned")
	}
}

func TestRotateQRToken(t *testing.T) {
	t.Parallel()

	m := machine.New("org-1", "model-1", "loc-1")
	old := m.QRToken()

	m.RotateQRToken()
	if m.QRToken() == old {
		t.Error("RotateQRToken must invalidate the previous token")
	}
}

func TestMoveToDropsLoadedLocation(t *testing.T) {
	t.Parallel()

	loc := location.New("org-1", "Flipper Hall", "Main St 1", "Portland")
	m := machine.New("org-1", "model-1", loc.ID(), machine.WithLocation(loc))
	if m.Location() == nil {
		t.Fatal("expected the loaded location snapshot")
	}

	m.MoveTo("loc-2")
	if m.LocationID() != "loc-2" {
		t.Errorf("LocationID = %q, want loc-2", m.LocationID())
	}
	if m.Location() != nil {
		t.Error("MoveTo must drop the stale location snapshot")
	}
}

func TestOwnerAssignment(t *testing.T) {
	t.Parallel()

	m := machine.New("org-1", "model-1", "loc-1", machine.WithOwnerID("user-1"))
	if m.OwnerID() != "user-1" {
		t.Errorf("OwnerID = %q, want user-1", m.OwnerID())
	}

	m.AssignOwner("user-2")
	if m.OwnerID() != "user-2" {
		t.Errorf("OwnerID = %q, want user-2", m.OwnerID())
	}

	m.ClearOwner()
	if m.OwnerID() != "" {
		t.Error("ClearOwner should return the machine to the collective")
	}
}
