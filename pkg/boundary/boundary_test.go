package boundary

import (
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeHTTPStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, http.StatusNotFound, CodeNotFound.HTTPStatus())
	require.Equal(t, http.StatusForbidden, CodeForbidden.HTTPStatus())
	require.Equal(t, http.StatusBadRequest, Code("").HTTPStatus())
}

func TestOrgRef(t *testing.T) {
	t.Parallel()

	g := GlobalOrg()
	require.True(t, g.IsGlobal())
	require.Empty(t, g.ID())

	s := OrgOf("org-1")
	require.False(t, s.IsGlobal())
	require.Equal(t, "org-1", s.ID())
}

// Concurrent invocations with distinct inputs must never observe each other;
// the package keeps no state between calls.
func TestValidators_ParallelInvocations(t *testing.T) {
	t.Parallel()

	const workers = 32
	const rounds = 200

	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			orgID := fmt.Sprintf("org-%d", w)
			otherOrg := fmt.Sprintf("org-%d-other", w)
			userID := fmt.Sprintf("user-%d", w)
			m := &Membership{ID: fmt.Sprintf("mem-%d", w), UserID: userID, OrganizationID: orgID}

			for i := 0; i < rounds; i++ {
				if res := ValidateOrganizationID(orgID); !res.Valid {
					errs <- fmt.Errorf("worker %d: org id unexpectedly invalid: %s", w, res.Error)
					return
				}
				if res := ValidateIssueOrganizationBoundary("issue-1", orgID, orgID); !res.Valid {
					errs <- fmt.Errorf("worker %d: same-org boundary failed: %s", w, res.Error)
					return
				}
				if res := ValidateIssueOrganizationBoundary("issue-1", otherOrg, orgID); res.Valid {
					errs <- fmt.Errorf("worker %d: cross-org boundary passed", w)
					return
				}
				cres := ValidateCompleteOrganizationBoundary("issue-1", orgID, m, userID, orgID, "Issue")
				if !cres.Valid {
					errs <- fmt.Errorf("worker %d: composite failed: %s", w, cres.Error)
					return
				}
				if cres.Data.Membership != m || cres.Data.CrossOrgAccess {
					errs <- fmt.Errorf("worker %d: composite data leaked across calls", w)
					return
				}
				scope := CreateOrganizationScopeWith(orgID, map[string]any{"organizationId": otherOrg})
				if scope["organizationId"] != orgID {
					errs <- fmt.Errorf("worker %d: scope override leaked: %v", w, scope["organizationId"])
					return
				}
			}
		}(w)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
}
