package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubjectForUser(t *testing.T) {
	t.Run("global org defaults", func(t *testing.T) {
		subject := SubjectForUser("", "f6f8b13e-755f-41e0-af1a-f2671e40c15c")
		assert.Equal(t, "org:global:user:f6f8b13e-755f-41e0-af1a-f2671e40c15c", subject)
	})

	t.Run("anonymous fallback", func(t *testing.T) {
		subject := SubjectForUser("274b29c7-86cb-4da1-85a3-3a221fe62a72", "")
		assert.Equal(t, "org:274b29c7-86cb-4da1-85a3-3a221fe62a72:user:anonymous", subject)
	})
}

func TestSubjectForRole(t *testing.T) {
	assert.Equal(t, "role:admin", SubjectForRole("Admin"))
	assert.Equal(t, "role:admin", SubjectForRole("role:admin"))
	assert.Equal(t, "role:unnamed", SubjectForRole("  "))
}

func TestDomainFromOrg(t *testing.T) {
	assert.Equal(t, "global", DomainFromOrg(""))
	assert.Equal(t, "org-a1", DomainFromOrg(" ORG-A1 "))
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "core.users", ObjectName("CORE", "Users"))
	assert.Equal(t, "global.resource", ObjectName("", ""))
}

func TestNormalizeAction(t *testing.T) {
	assert.Equal(t, "edit", NormalizeAction(" Edit "))
	assert.Equal(t, "*", NormalizeAction(""))
}
