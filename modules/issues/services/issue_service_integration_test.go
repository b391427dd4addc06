package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-collective/pinpoint/modules"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
	corepersistence "github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/activity"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
	issuespersistence "github.com/pinpoint-collective/pinpoint/modules/issues/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/issues/services"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/location"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	machinespersistence "github.com/pinpoint-collective/pinpoint/modules/machines/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/itf"
)

// issueFixture is a migrated database with one technician member and one
// machine on the floor, everything inside the test transaction.
type issueFixture struct {
	env       *itf.TestEnvironment
	ctx       context.Context
	actor     user.User
	machine   *machine.Machine
	statuses  map[string]*status.Status
	issues    *services.IssueService
	statusSvc *services.StatusService
	comments  *services.CommentService
}

func setupIssueFixture(t *testing.T) *issueFixture {
	t.Helper()

	email, err := internet.NewEmail("jordan@pinpoint.test")
	require.NoError(t, err)
	actor := user.New("Jordan", "Reyes", email, user.UILanguageEN)

	env := itf.NewTestContext().
		WithModules(modules.BuiltInModules...).
		WithUser(actor).
		Build(t)

	userRepo := corepersistence.NewUserRepository()
	_, err = userRepo.Create(env.Ctx, actor)
	require.NoError(t, err)

	roleRepo := corepersistence.NewRoleRepository()
	adminRole, err := roleRepo.Create(env.Ctx, role.New(
		"Admin",
		role.WithOrganizationID(env.OrgID()),
		role.WithSlug(role.SlugAdmin),
		role.WithSystem(true),
	))
	require.NoError(t, err)

	membershipRepo := corepersistence.NewMembershipRepository(userRepo)
	member, err := membershipRepo.Create(env.Ctx, membership.New(env.OrgID(), actor.ID(), adminRole.ID()))
	require.NoError(t, err)

	grantRole(t, env.OrgID(), actor.ID(), role.SlugAdmin)

	// The middleware attaches the membership on real requests.
	ctx := composables.WithMembership(env.Ctx, &boundary.Membership{
		ID:             member.ID(),
		UserID:         actor.ID(),
		OrganizationID: env.OrgID(),
		RoleID:         adminRole.ID(),
	})

	statusSvc := itf.GetService[services.StatusService](env)
	require.NoError(t, statusSvc.SeedStock(ctx))
	all, err := statusSvc.GetAll(ctx)
	require.NoError(t, err)
	statuses := make(map[string]*status.Status, len(all))
	for _, st := range all {
		statuses[st.Name()] = st
	}

	mdl, err := machinespersistence.NewModelRepository().Create(
		env.Ctx, model.New("Medieval Madness", "Williams", 1997, model.TypeSS))
	require.NoError(t, err)
	loc, err := machinespersistence.NewLocationRepository().Create(
		ctx, location.New(env.OrgID(), "Flipper Hall", "Main St 1", "Portland"))
	require.NoError(t, err)
	mch, err := machinespersistence.NewMachineRepository().Create(
		ctx, machine.New(env.OrgID(), mdl.ID(), loc.ID()))
	require.NoError(t, err)

	return &issueFixture{
		env:       env,
		ctx:       ctx,
		actor:     actor,
		machine:   mch,
		statuses:  statuses,
		issues:    itf.GetService[services.IssueService](env),
		statusSvc: statusSvc,
		comments:  itf.GetService[services.CommentService](env),
	}
}

// grantRole mirrors what MembershipService.Add does against the policy
// engine, with a revoke on cleanup so the process-wide enforcer stays clean.
func grantRole(t *testing.T, orgID, userID, slug string) {
	t.Helper()
	subject := authz.SubjectForUser(orgID, userID)
	domain := authz.DomainFromOrg(orgID)
	require.NoError(t, authz.Use().GrantRole(subject, authz.SubjectForRole(slug), domain))
	t.Cleanup(func() {
		_ = authz.Use().RevokeRole(subject, authz.SubjectForRole(slug), domain)
	})
}

func (f *issueFixture) outboxCount(t *testing.T, topic string) int64 {
	t.Helper()
	var count int64
	err := f.env.Tx.QueryRow(f.ctx,
		"SELECT COUNT(*) FROM notification_outbox WHERE organization_id = $1 AND topic = $2",
		f.env.OrgID(), topic,
	).Scan(&count)
	require.NoError(t, err)
	return count
}

func (f *issueFixture) activityByAction(t *testing.T, issueID string, action activity.Action) *activity.Activity {
	t.Helper()
	feed, err := f.issues.GetActivity(f.ctx, issueID)
	require.NoError(t, err)
	for _, entry := range feed {
		if entry.Action() == action {
			return entry
		}
	}
	t.Fatalf("no %q entry in the feed", action)
	return nil
}

func TestIssueLifecycle(t *testing.T) {
	t.Parallel()
	f := setupIssueFixture(t)

	var filed *issue.Issue

	t.Run("filing lands in the default status", func(t *testing.T) {
		created, err := f.issues.Create(f.ctx, services.IssueDraft{
			MachineID: f.machine.ID(),
			Title:     "Left flipper dead",
		})
		require.NoError(t, err)
		filed = created

		assert.Equal(t, f.statuses["New"].ID(), created.StatusID())
		assert.Equal(t, f.actor.ID(), created.ReporterID())
		assert.Equal(t, issue.PriorityMedium, created.Priority())
		assert.Nil(t, created.ResolvedAt())

		entry := f.activityByAction(t, created.ID(), activity.ActionCreated)
		assert.Equal(t, f.actor.ID(), entry.ActorID())
		assert.Equal(t, int64(1), f.outboxCount(t, issue.TopicCreated))
	})

	t.Run("editing records a reversible diff", func(t *testing.T) {
		updated, err := f.issues.Update(f.ctx, filed.ID(), services.IssueChanges{
			Title:       "Left flipper coil failing",
			Description: filed.Description(),
			Priority:    issue.PriorityHigh,
			Severity:    filed.Severity(),
			Consistency: filed.Consistency(),
		})
		require.NoError(t, err)
		assert.Equal(t, "Left flipper coil failing", updated.Title())
		assert.Equal(t, issue.PriorityHigh, updated.Priority())

		entry := f.activityByAction(t, filed.ID(), activity.ActionUpdated)
		assert.NotEmpty(t, entry.Changes())
		assert.NotEmpty(t, entry.Rollback())
	})

	t.Run("assignment requires membership", func(t *testing.T) {
		_, err := f.issues.Assign(f.ctx, filed.ID(), uuid.NewString())
		var bErr *boundary.Error
		require.ErrorAs(t, err, &bErr)
		assert.Equal(t, boundary.CodeNotFound, bErr.Result.Code)

		assigned, err := f.issues.Assign(f.ctx, filed.ID(), f.actor.ID())
		require.NoError(t, err)
		assert.Equal(t, f.actor.ID(), assigned.AssigneeID())
		assert.Equal(t, int64(1), f.outboxCount(t, issue.TopicAssigned))
	})

	t.Run("resolving stamps the resolution time", func(t *testing.T) {
		fixed, err := f.issues.ChangeStatus(f.ctx, filed.ID(), f.statuses["Fixed"].ID())
		require.NoError(t, err)
		require.NotNil(t, fixed.ResolvedAt())
		assert.Equal(t, int64(1), f.outboxCount(t, issue.TopicStatusChanged))

		reopened, err := f.issues.ChangeStatus(f.ctx, filed.ID(), f.statuses["In Progress"].ID())
		require.NoError(t, err)
		assert.Nil(t, reopened.ResolvedAt())
	})

	t.Run("revert undoes one feed entry", func(t *testing.T) {
		entry := f.activityByAction(t, filed.ID(), activity.ActionUpdated)
		reverted, err := f.issues.Revert(f.ctx, filed.ID(), entry.ID())
		require.NoError(t, err)
		assert.Equal(t, "Left flipper dead", reverted.Title())
		assert.Equal(t, issue.PriorityMedium, reverted.Priority())

		f.activityByAction(t, filed.ID(), activity.ActionReverted)
	})

	t.Run("the creation entry cannot be reverted", func(t *testing.T) {
		entry := f.activityByAction(t, filed.ID(), activity.ActionCreated)
		_, err := f.issues.Revert(f.ctx, filed.ID(), entry.ID())
		require.ErrorIs(t, err, services.ErrRevertCreation)
	})
}

func TestIssueCrossOrganizationReads(t *testing.T) {
	t.Parallel()
	f := setupIssueFixture(t)

	filed, err := f.issues.Create(f.ctx, services.IssueDraft{
		MachineID: f.machine.ID(),
		Title:     "Right ramp reject",
	})
	require.NoError(t, err)

	other, err := itf.CreateTestOrganization(f.ctx, f.env.Pool)
	require.NoError(t, err)
	grantRole(t, other.ID(), f.actor.ID(), role.SlugAdmin)

	// Even an authorized member of the other organization cannot see the
	// issue; the row is invisible, not forbidden.
	otherCtx := composables.WithOrgID(f.ctx, other.ID())
	_, err = f.issues.GetByID(otherCtx, filed.ID())
	require.ErrorIs(t, err, issuespersistence.ErrIssueNotFound)

	_, err = f.issues.GetActivity(otherCtx, filed.ID())
	require.ErrorIs(t, err, issuespersistence.ErrIssueNotFound)
}

func TestBulkChangeStatus(t *testing.T) {
	t.Parallel()
	f := setupIssueFixture(t)

	first, err := f.issues.Create(f.ctx, services.IssueDraft{MachineID: f.machine.ID(), Title: "Stuck ball"})
	require.NoError(t, err)
	second, err := f.issues.Create(f.ctx, services.IssueDraft{MachineID: f.machine.ID(), Title: "Burnt GI string"})
	require.NoError(t, err)

	t.Run("moves every target", func(t *testing.T) {
		updated, err := f.issues.BulkChangeStatus(f.ctx, []string{first.ID(), second.ID()}, f.statuses["Fixed"].ID())
		require.NoError(t, err)
		require.Len(t, updated, 2)
		for _, i := range updated {
			assert.Equal(t, f.statuses["Fixed"].ID(), i.StatusID())
			assert.NotNil(t, i.ResolvedAt())
		}
		assert.Equal(t, int64(2), f.outboxCount(t, issue.TopicStatusChanged))
	})

	t.Run("a missing target fails the whole batch with its position", func(t *testing.T) {
		_, err := f.issues.BulkChangeStatus(f.ctx, []string{first.ID(), uuid.NewString()}, f.statuses["New"].ID())
		var bErr *boundary.Error
		require.ErrorAs(t, err, &bErr)
		assert.Equal(t, boundary.CodeNotFound, bErr.Result.Code)
		assert.Contains(t, bErr.Result.Error, "index 1")

		// Nothing moved.
		fresh, err := f.issues.GetByID(f.ctx, first.ID())
		require.NoError(t, err)
		assert.Equal(t, f.statuses["Fixed"].ID(), fresh.StatusID())
	})

	t.Run("a status from another organization is invisible", func(t *testing.T) {
		other, err := itf.CreateTestOrganization(f.ctx, f.env.Pool)
		require.NoError(t, err)
		foreign, err := issuespersistence.NewStatusRepository().Create(
			f.ctx, status.New(other.ID(), "Foreign", status.CategoryNew))
		require.NoError(t, err)

		_, err = f.issues.BulkChangeStatus(f.ctx, []string{first.ID()}, foreign.ID())
		require.ErrorIs(t, err, issuespersistence.ErrStatusNotFound)
	})
}

func TestReportAnonymous(t *testing.T) {
	t.Parallel()
	f := setupIssueFixture(t)

	filed, err := f.issues.ReportAnonymous(f.env.Ctx, f.machine.QRToken(), services.AnonymousReport{
		Title:        "Tilt bob way too sensitive",
		ReporterName: "Alex",
		Severity:     issue.SeverityMinor,
	})
	require.NoError(t, err)

	assert.Equal(t, f.env.OrgID(), filed.OrganizationID())
	assert.Equal(t, f.statuses["New"].ID(), filed.StatusID())
	assert.Equal(t, "Alex", filed.ReporterName())
	assert.Empty(t, filed.ReporterID())

	t.Run("an unknown token names no machine", func(t *testing.T) {
		_, err := f.issues.ReportAnonymous(f.env.Ctx, uuid.NewString(), services.AnonymousReport{Title: "x"})
		require.ErrorIs(t, err, machinespersistence.ErrMachineNotFound)
	})
}

func TestCommentThread(t *testing.T) {
	t.Parallel()
	f := setupIssueFixture(t)

	filed, err := f.issues.Create(f.ctx, services.IssueDraft{MachineID: f.machine.ID(), Title: "Scoop eject weak"})
	require.NoError(t, err)

	posted, err := f.comments.Add(f.ctx, filed.ID(), "Ordered a new coil sleeve.")
	require.NoError(t, err)
	assert.Equal(t, f.actor.ID(), posted.AuthorID())
	assert.Equal(t, int64(1), f.outboxCount(t, issue.TopicCommented))

	edited, err := f.comments.Edit(f.ctx, posted.ID(), "Coil sleeve arrived, swapping tonight.")
	require.NoError(t, err)
	assert.Equal(t, "Coil sleeve arrived, swapping tonight.", edited.Content())

	require.NoError(t, f.comments.Remove(f.ctx, posted.ID()))
	thread, err := f.comments.GetByIssue(f.ctx, filed.ID())
	require.NoError(t, err)
	assert.Empty(t, thread)
}

func TestStatusGuardrails(t *testing.T) {
	t.Parallel()
	f := setupIssueFixture(t)

	t.Run("the default status cannot be deleted", func(t *testing.T) {
		err := f.statusSvc.Delete(f.ctx, f.statuses["New"].ID())
		require.ErrorIs(t, err, services.ErrDefaultStatus)
	})

	t.Run("a status holding issues cannot be deleted", func(t *testing.T) {
		filed, err := f.issues.Create(f.ctx, services.IssueDraft{MachineID: f.machine.ID(), Title: "Display flicker"})
		require.NoError(t, err)
		_, err = f.issues.ChangeStatus(f.ctx, filed.ID(), f.statuses["In Progress"].ID())
		require.NoError(t, err)

		err = f.statusSvc.Delete(f.ctx, f.statuses["In Progress"].ID())
		require.ErrorIs(t, err, services.ErrStatusInUse)
	})

	t.Run("the default flag moves atomically", func(t *testing.T) {
		_, err := f.statusSvc.SetDefault(f.ctx, f.statuses["Acknowledged"].ID())
		require.NoError(t, err)

		all, err := f.statusSvc.GetAll(f.ctx)
		require.NoError(t, err)
		defaults := 0
		for _, st := range all {
			if st.IsDefault() {
				defaults++
				assert.Equal(t, "Acknowledged", st.Name())
			}
		}
		assert.Equal(t, 1, defaults)
	})

	t.Run("an idle status deletes cleanly", func(t *testing.T) {
		require.NoError(t, f.statusSvc.Delete(f.ctx, f.statuses["Not Reproducible"].ID()))
		all, err := f.statusSvc.GetAll(f.ctx)
		require.NoError(t, err)
		for _, st := range all {
			assert.NotEqual(t, "Not Reproducible", st.Name())
		}
	})
}
