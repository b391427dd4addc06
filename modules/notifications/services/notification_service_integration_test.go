package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pinpoint-collective/pinpoint/modules"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/user"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/role"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/value_objects/internet"
	corepersistence "github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/notifications/domain/entities/notification"
	notifpersistence "github.com/pinpoint-collective/pinpoint/modules/notifications/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/notifications/services"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/itf"
)

type inboxFixture struct {
	env     *itf.TestEnvironment
	actor   user.User
	other   user.User
	service *services.NotificationService
}

func setupInboxFixture(t *testing.T) *inboxFixture {
	t.Helper()

	actorEmail, err := internet.NewEmail("sam@pinpoint.test")
	require.NoError(t, err)
	actor := user.New("Sam", "Okafor", actorEmail, user.UILanguageEN)

	env := itf.NewTestContext().
		WithModules(modules.BuiltInModules...).
		WithUser(actor).
		Build(t)

	userRepo := corepersistence.NewUserRepository()
	_, err = userRepo.Create(env.Ctx, actor)
	require.NoError(t, err)

	otherEmail, err := internet.NewEmail("kim@pinpoint.test")
	require.NoError(t, err)
	other := user.New("Kim", "Larsen", otherEmail, user.UILanguageEN)
	_, err = userRepo.Create(env.Ctx, other)
	require.NoError(t, err)

	memberRole, err := corepersistence.NewRoleRepository().Create(env.Ctx, role.New(
		"Member",
		role.WithOrganizationID(env.OrgID()),
		role.WithSlug(role.SlugMember),
		role.WithSystem(true),
	))
	require.NoError(t, err)
	membershipRepo := corepersistence.NewMembershipRepository(userRepo)
	_, err = membershipRepo.Create(env.Ctx, membership.New(env.OrgID(), actor.ID(), memberRole.ID()))
	require.NoError(t, err)

	subject := authz.SubjectForUser(env.OrgID(), actor.ID())
	domain := authz.DomainFromOrg(env.OrgID())
	require.NoError(t, authz.Use().GrantRole(subject, authz.SubjectForRole(role.SlugMember), domain))
	t.Cleanup(func() {
		_ = authz.Use().RevokeRole(subject, authz.SubjectForRole(role.SlugMember), domain)
	})

	return &inboxFixture{
		env:     env,
		actor:   actor,
		other:   other,
		service: itf.GetService[services.NotificationService](env),
	}
}

func (f *inboxFixture) deliver(t *testing.T, userID, topic, title string, opts ...notification.Option) *notification.Notification {
	t.Helper()
	n, err := notifpersistence.NewNotificationRepository().Create(
		f.env.Ctx,
		notification.New(f.env.OrgID(), userID, topic, uuid.NewString(), title, title, opts...),
	)
	require.NoError(t, err)
	return n
}

func TestNotificationInbox(t *testing.T) {
	t.Parallel()
	f := setupInboxFixture(t)

	base := time.Now().Add(-time.Hour)
	readAt := base.Add(time.Minute)
	f.deliver(t, f.actor.ID(), "issues.created", "Oldest, already read",
		notification.WithCreatedAt(base), notification.WithReadAt(&readAt))
	f.deliver(t, f.actor.ID(), "issues.assigned", "Middle, unread",
		notification.WithCreatedAt(base.Add(10*time.Minute)))
	newest := f.deliver(t, f.actor.ID(), "issues.commented", "Newest, unread",
		notification.WithCreatedAt(base.Add(20*time.Minute)))
	f.deliver(t, f.other.ID(), "issues.created", "Someone else's")

	t.Run("lists only the session user's messages, newest first", func(t *testing.T) {
		page, err := f.service.GetPaginated(f.env.Ctx, &services.ListParams{})
		require.NoError(t, err)
		require.Len(t, page, 3)
		assert.Equal(t, "Newest, unread", page[0].Title())
		for _, n := range page {
			assert.Equal(t, f.actor.ID(), n.UserID())
		}
	})

	t.Run("the unread filter drops read messages", func(t *testing.T) {
		unread, err := f.service.GetPaginated(f.env.Ctx, &services.ListParams{UnreadOnly: true})
		require.NoError(t, err)
		assert.Len(t, unread, 2)

		count, err := f.service.CountUnread(f.env.Ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("marking read stamps the message", func(t *testing.T) {
		marked, err := f.service.MarkRead(f.env.Ctx, newest.ID())
		require.NoError(t, err)
		assert.True(t, marked.IsRead())
		require.NotNil(t, marked.ReadAt())

		count, err := f.service.CountUnread(f.env.Ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("another member's message is out of reach", func(t *testing.T) {
		foreign := f.deliver(t, f.other.ID(), "issues.created", "Not yours")
		_, err := f.service.MarkRead(f.env.Ctx, foreign.ID())
		require.ErrorIs(t, err, notifpersistence.ErrNotificationNotFound)
	})

	t.Run("mark all read clears the badge", func(t *testing.T) {
		updated, err := f.service.MarkAllRead(f.env.Ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), updated)

		count, err := f.service.CountUnread(f.env.Ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}
