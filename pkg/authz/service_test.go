package authz

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testListUserID = "f6f8b13e-755f-41e0-af1a-f2671e40c15c"

func newTestService(t *testing.T, mode Mode) *Service {
	t.Helper()
	root := filepath.Join("testdata")
	svc, err := NewService(Config{
		ModelPath:    filepath.Join(root, "model.conf"),
		PolicyPath:   filepath.Join(root, "policy.csv"),
		FlagProvider: staticFlagProvider{mode: mode},
	})
	require.NoError(t, err)
	return svc
}

func TestServiceAuthorize(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	req := NewRequest(
		SubjectForUser("", testListUserID),
		DomainFromOrg(""),
		ObjectName("core", "users"),
		NormalizeAction("list"),
	)
	require.NoError(t, svc.Authorize(context.Background(), req))
}

func TestServiceAuthorizeDenied(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	req := NewRequest(
		SubjectForUser("", "7e6f3c8e-4e0b-4b86-9f6d-2f1d6a3c9a01"),
		DomainFromOrg(""),
		ObjectName("core", "users"),
		NormalizeAction("edit"),
	)
	err := svc.Authorize(context.Background(), req)
	require.Error(t, err)
}

func TestServiceAuthorizeShadowMode(t *testing.T) {
	svc := newTestService(t, ModeShadow)
	req := NewRequest(
		SubjectForUser("", "7e6f3c8e-4e0b-4b86-9f6d-2f1d6a3c9a01"),
		DomainFromOrg(""),
		ObjectName("core", "users"),
		NormalizeAction("edit"),
	)
	require.NoError(t, svc.Authorize(context.Background(), req))
}

func TestServiceMode(t *testing.T) {
	svc := newTestService(t, ModeDisabled)
	require.Equal(t, ModeDisabled, svc.Mode())
}

func TestServiceGrantRole(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	subject := SubjectForUser("org-77", "3f0a2b1c-9d8e-4f7a-b6c5-d4e3f2a1b0c9")
	domain := DomainFromOrg("org-77")
	req := NewRequest(subject, domain, ObjectName("issues", "issues"), NormalizeAction("update"))

	allowed, err := svc.Check(context.Background(), req)
	require.NoError(t, err)
	require.False(t, allowed)

	require.NoError(t, svc.GrantRole(subject, SubjectForRole("admin"), domain))
	allowed, err = svc.Check(context.Background(), req)
	require.NoError(t, err)
	require.True(t, allowed)

	require.NoError(t, svc.RevokeRole(subject, SubjectForRole("admin"), domain))
	allowed, err = svc.Check(context.Background(), req)
	require.NoError(t, err)
	require.False(t, allowed)
}
