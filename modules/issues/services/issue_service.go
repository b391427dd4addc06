package services

import (
	"context"
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/wI2L/jsondiff"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	corepersistence "github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	coreservices "github.com/pinpoint-collective/pinpoint/modules/core/services"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/activity"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
	"github.com/pinpoint-collective/pinpoint/modules/issues/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/outbox"
)

var issuesAuthzObject = authz.ObjectName("issues", "issues")

// notificationOutbox is the table issue lifecycle events are enqueued into,
// inside the same transaction as the domain write. The notifications module
// owns the DDL; the relay drains it.
var notificationOutbox = pgx.Identifier{"notification_outbox"}

var (
	ErrRevertCreation   = errors.New("the creation entry cannot be reverted")
	ErrRollbackConflict = errors.New("the recorded rollback no longer applies to the issue")
)

// emptyPatch is the stored no-op patch for entries with nothing to roll
// back to.
var emptyPatch = json.RawMessage("[]")

func authorizeIssueRecords(ctx context.Context, action string) error {
	return authorizeIssues(ctx, issuesAuthzObject, action)
}

// IssueDraft is everything a member supplies when filing an issue. An empty
// StatusID lands the issue in the organization's default status; zero-valued
// enums fall back to the aggregate defaults.
type IssueDraft struct {
	MachineID   string
	StatusID    string
	Title       string
	Description string
	Priority    issue.Priority
	Severity    issue.Severity
	Consistency issue.Consistency
	AssigneeID  string
}

// IssueChanges is the editable detail set of an existing issue. Status and
// assignee move through their own operations so the activity feed records
// them as what they are.
type IssueChanges struct {
	Title       string
	Description string
	Priority    issue.Priority
	Severity    issue.Severity
	Consistency issue.Consistency
}

// AnonymousReport is what a passerby files after scanning a machine's QR
// sticker. No account, no session; just the problem and optionally a name.
type AnonymousReport struct {
	Title        string
	Description  string
	ReporterName string
	Severity     issue.Severity
	Consistency  issue.Consistency
}

type IssueService struct {
	repo           issue.Repository
	statusRepo     status.Repository
	activityRepo   activity.Repository
	machineRepo    machine.Repository
	membershipRepo membership.Repository
	orgRepo        organization.Repository
	exportService  *coreservices.ExcelExportService
	outbox         outbox.Publisher
}

func NewIssueService(
	repo issue.Repository,
	statusRepo status.Repository,
	activityRepo activity.Repository,
	machineRepo machine.Repository,
	membershipRepo membership.Repository,
	orgRepo organization.Repository,
	exportService *coreservices.ExcelExportService,
	publisher outbox.Publisher,
) *IssueService {
	return &IssueService{
		repo:           repo,
		statusRepo:     statusRepo,
		activityRepo:   activityRepo,
		machineRepo:    machineRepo,
		membershipRepo: membershipRepo,
		orgRepo:        orgRepo,
		exportService:  exportService,
		outbox:         publisher,
	}
}

func (s *IssueService) Count(ctx context.Context, params *issue.FindParams) (int64, error) {
	if err := authorizeIssueRecords(ctx, "list"); err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, params)
}

func (s *IssueService) GetPaginated(ctx context.Context, params *issue.FindParams) ([]*issue.Issue, error) {
	if err := authorizeIssueRecords(ctx, "list"); err != nil {
		return nil, err
	}
	return s.repo.GetPaginated(ctx, params)
}

func (s *IssueService) GetByID(ctx context.Context, id string) (*issue.Issue, error) {
	if err := authorizeIssueRecords(ctx, "view"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	i, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := boundary.ValidateIssueOrganizationBoundary(i.ID(), i.OrganizationID(), orgID).Err(); err != nil {
		return nil, err
	}
	return i, nil
}

func (s *IssueService) GetByMachine(ctx context.Context, machineID string) ([]*issue.Issue, error) {
	if err := authorizeIssueRecords(ctx, "list"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.machineRepo.GetByID(ctx, machineID)
	if err != nil {
		return nil, err
	}
	if err := boundary.ValidateMachineOrganizationBoundary(m.ID(), m.OrganizationID(), orgID).Err(); err != nil {
		return nil, err
	}
	return s.repo.GetByMachine(ctx, machineID)
}

// GetActivity returns the change feed of an issue, newest entry first.
func (s *IssueService) GetActivity(ctx context.Context, issueID string) ([]*activity.Activity, error) {
	if err := authorizeIssueRecords(ctx, "view"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	i, err := s.repo.GetByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if err := boundary.ValidateIssueOrganizationBoundary(i.ID(), i.OrganizationID(), orgID).Err(); err != nil {
		return nil, err
	}
	return s.activityRepo.GetByIssue(ctx, issueID)
}

// Create files an issue on behalf of the signed-in member. The machine is
// checked through the composite boundary together with the actor's
// membership, every other reference through the related-entity check, and
// the lifecycle event rides in the same transaction as the insert.
func (s *IssueService) Create(ctx context.Context, draft IssueDraft) (*issue.Issue, error) {
	if err := authorizeIssueRecords(ctx, "create"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var created *issue.Issue
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		m, err := s.machineRepo.GetByID(txCtx, draft.MachineID)
		if err != nil {
			return err
		}
		res := boundary.ValidateCompleteOrganizationBoundary(
			m.ID(), m.OrganizationID(),
			composables.TryUseMembership(txCtx),
			currentUser.ID(), orgID, "Game instance",
		)
		if err := res.Err(); err != nil {
			return err
		}

		st, err := s.resolveStatus(txCtx, draft.StatusID)
		if err != nil {
			return err
		}

		related := []boundary.RelatedEntity{
			{EntityID: st.ID(), EntityType: "Status", Org: boundary.OrgOf(st.OrganizationID())},
		}
		if draft.AssigneeID != "" {
			am, err := s.assigneeMembership(txCtx, orgID, draft.AssigneeID)
			if err != nil {
				return err
			}
			related = append(related, boundary.RelatedEntity{
				EntityID:   am.ID(),
				EntityType: "Assignee membership",
				Org:        boundary.OrgOf(am.OrganizationID()),
			})
		}
		if err := boundary.ValidateRelatedEntitiesOwnership(related, orgID).Err(); err != nil {
			return err
		}

		opts := []issue.Option{issue.WithReporterID(currentUser.ID())}
		if draft.Description != "" {
			opts = append(opts, issue.WithDescription(draft.Description))
		}
		if draft.Priority != "" {
			opts = append(opts, issue.WithPriority(draft.Priority))
		}
		if draft.Severity != "" {
			opts = append(opts, issue.WithSeverity(draft.Severity))
		}
		if draft.Consistency != "" {
			opts = append(opts, issue.WithConsistency(draft.Consistency))
		}
		if draft.AssigneeID != "" {
			opts = append(opts, issue.WithAssigneeID(draft.AssigneeID))
		}

		fresh := issue.New(orgID, m.ID(), st.ID(), draft.Title, opts...)
		if _, err := s.repo.Create(txCtx, fresh); err != nil {
			return err
		}
		if err := s.recordCreation(txCtx, fresh, currentUser.ID()); err != nil {
			return err
		}
		created, err = s.repo.GetByID(txCtx, fresh.ID())
		if err != nil {
			return err
		}
		return enqueueIssueEvent(txCtx, s.outbox, issue.TopicCreated, issuePayload(created, currentUser.ID()))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update edits the issue's details. The field-level diff between the images
// before and after the write lands in the activity feed; an edit that
// changes nothing records nothing.
func (s *IssueService) Update(ctx context.Context, id string, changes IssueChanges) (*issue.Issue, error) {
	if err := authorizeIssueRecords(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var updated *issue.Issue
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		i, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		res := boundary.ValidateCompleteOrganizationBoundary(
			i.ID(), i.OrganizationID(),
			composables.TryUseMembership(txCtx),
			currentUser.ID(), orgID, "Issue",
		)
		if err := res.Err(); err != nil {
			return err
		}

		before := i.Snapshot()
		i.UpdateDetails(changes.Title, changes.Description, changes.Priority, changes.Severity, changes.Consistency)
		if err := s.repo.Update(txCtx, i); err != nil {
			return err
		}

		patch, rollback, err := snapshotDiff(before, i.Snapshot())
		if err != nil {
			return err
		}
		if patch != nil {
			if err := s.recordActivity(txCtx, i, currentUser.ID(), activity.ActionUpdated, patch, rollback); err != nil {
				return err
			}
		}
		updated, err = s.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Assign hands the issue to a member of the organization. An empty user id
// clears the assignment. Assignments are announced to the outbox; clearing
// one is not.
func (s *IssueService) Assign(ctx context.Context, id, userID string) (*issue.Issue, error) {
	if err := authorizeIssueRecords(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var updated *issue.Issue
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		i, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := boundary.ValidateIssueOrganizationBoundary(i.ID(), i.OrganizationID(), orgID).Err(); err != nil {
			return err
		}

		before := i.Snapshot()
		if userID == "" {
			i.Unassign()
		} else {
			if _, err := s.assigneeMembership(txCtx, orgID, userID); err != nil {
				return err
			}
			i.Assign(userID)
		}
		if err := s.repo.Update(txCtx, i); err != nil {
			return err
		}

		patch, rollback, err := snapshotDiff(before, i.Snapshot())
		if err != nil {
			return err
		}
		if patch != nil {
			if err := s.recordActivity(txCtx, i, currentUser.ID(), activity.ActionAssigned, patch, rollback); err != nil {
				return err
			}
		}
		updated, err = s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if userID != "" && patch != nil {
			return enqueueIssueEvent(txCtx, s.outbox, issue.TopicAssigned, issuePayload(updated, currentUser.ID()))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ChangeStatus moves the issue into another of the organization's statuses.
// Entering a RESOLVED category stamps the resolution time, leaving it clears
// the stamp; both the feed entry and the outbox event carry the transition.
func (s *IssueService) ChangeStatus(ctx context.Context, id, statusID string) (*issue.Issue, error) {
	if err := authorizeIssueRecords(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var updated *issue.Issue
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		i, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		res := boundary.ValidateCompleteOrganizationBoundary(
			i.ID(), i.OrganizationID(),
			composables.TryUseMembership(txCtx),
			currentUser.ID(), orgID, "Issue",
		)
		if err := res.Err(); err != nil {
			return err
		}

		st, err := s.statusRepo.GetByID(txCtx, statusID)
		if err != nil {
			return err
		}
		if err := validateStatusBoundary(st, orgID); err != nil {
			return err
		}

		before := i.Snapshot()
		i.ChangeStatus(st)
		if err := s.repo.Update(txCtx, i); err != nil {
			return err
		}

		patch, rollback, err := snapshotDiff(before, i.Snapshot())
		if err != nil {
			return err
		}
		updated, err = s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if patch == nil {
			return nil
		}
		if err := s.recordActivity(txCtx, i, currentUser.ID(), activity.ActionStatusChanged, patch, rollback); err != nil {
			return err
		}
		return enqueueIssueEvent(txCtx, s.outbox, issue.TopicStatusChanged, issuePayload(updated, currentUser.ID()))
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// BulkChangeStatus applies one status to many issues at once. Every target
// is validated before any write: a missing issue or one belonging to another
// organization fails the whole batch with its position in the request.
func (s *IssueService) BulkChangeStatus(ctx context.Context, ids []string, statusID string) ([]*issue.Issue, error) {
	if err := authorizeIssueRecords(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var updated []*issue.Issue
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		st, err := s.statusRepo.GetByID(txCtx, statusID)
		if err != nil {
			return err
		}
		if err := validateStatusBoundary(st, orgID); err != nil {
			return err
		}

		fetched, err := s.repo.GetByIDs(txCtx, ids)
		if err != nil {
			return err
		}
		byID := make(map[string]*issue.Issue, len(fetched))
		for _, i := range fetched {
			byID[i.ID()] = i
		}

		refs := make([]*boundary.EntityRef, len(ids))
		for idx, id := range ids {
			if i, ok := byID[id]; ok {
				refs[idx] = &boundary.EntityRef{ID: i.ID(), Org: boundary.OrgOf(i.OrganizationID())}
			}
		}
		if err := boundary.ValidateMultipleEntityOwnership(refs, orgID, "Issue").Err(); err != nil {
			return err
		}

		updated = make([]*issue.Issue, 0, len(ids))
		for _, id := range ids {
			i := byID[id]
			before := i.Snapshot()
			i.ChangeStatus(st)
			if err := s.repo.Update(txCtx, i); err != nil {
				return err
			}

			patch, rollback, err := snapshotDiff(before, i.Snapshot())
			if err != nil {
				return err
			}
			fresh, err := s.repo.GetByID(txCtx, id)
			if err != nil {
				return err
			}
			updated = append(updated, fresh)
			if patch == nil {
				continue
			}
			if err := s.recordActivity(txCtx, i, currentUser.ID(), activity.ActionStatusChanged, patch, rollback); err != nil {
				return err
			}
			if err := enqueueIssueEvent(txCtx, s.outbox, issue.TopicStatusChanged, issuePayload(fresh, currentUser.ID())); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *IssueService) Delete(ctx context.Context, id string) error {
	if err := authorizeIssueRecords(ctx, "delete"); err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	return composables.InOrgTx(ctx, func(txCtx context.Context) error {
		i, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := boundary.ValidateIssueOrganizationBoundary(i.ID(), i.OrganizationID(), orgID).Err(); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, id)
	})
}

// Revert applies the rollback patch of one feed entry to the issue's current
// image, undoing that change. The entry stays; the revert itself lands in
// the feed as a new entry.
func (s *IssueService) Revert(ctx context.Context, issueID, activityID string) (*issue.Issue, error) {
	if err := authorizeIssueRecords(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	currentUser, err := composables.UseUser(ctx)
	if err != nil {
		return nil, err
	}

	var reverted *issue.Issue
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		i, err := s.repo.GetByID(txCtx, issueID)
		if err != nil {
			return err
		}
		res := boundary.ValidateCompleteOrganizationBoundary(
			i.ID(), i.OrganizationID(),
			composables.TryUseMembership(txCtx),
			currentUser.ID(), orgID, "Issue",
		)
		if err := res.Err(); err != nil {
			return err
		}

		act, err := s.activityRepo.GetByID(txCtx, activityID)
		if err != nil {
			return err
		}
		if act.IssueID() != i.ID() {
			return persistence.ErrActivityNotFound
		}
		if act.Action() == activity.ActionCreated {
			return ErrRevertCreation
		}

		current, err := json.Marshal(i.Snapshot())
		if err != nil {
			return err
		}
		patch, err := jsonpatch.DecodePatch(act.Rollback())
		if err != nil {
			return errors.Wrap(err, "decode rollback patch")
		}
		restored, err := patch.Apply(current)
		if err != nil {
			return ErrRollbackConflict
		}
		var snap issue.Snapshot
		if err := json.Unmarshal(restored, &snap); err != nil {
			return errors.Wrap(err, "decode restored snapshot")
		}

		st, err := s.statusRepo.GetByID(txCtx, snap.StatusID)
		if err != nil {
			return err
		}

		before := i.Snapshot()
		i.Restore(snap, st)
		if err := s.repo.Update(txCtx, i); err != nil {
			return err
		}

		diff, rollback, err := snapshotDiff(before, i.Snapshot())
		if err != nil {
			return err
		}
		if diff != nil {
			if err := s.recordActivity(txCtx, i, currentUser.ID(), activity.ActionReverted, diff, rollback); err != nil {
				return err
			}
		}
		reverted, err = s.repo.GetByID(txCtx, issueID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return reverted, nil
}

// ReportAnonymous files an issue from a QR scan without a session. The
// sticker token picks the machine, the machine's organization supplies the
// context, and the report lands in that organization's default status.
func (s *IssueService) ReportAnonymous(ctx context.Context, qrToken string, report AnonymousReport) (*issue.Issue, error) {
	m, err := s.machineRepo.GetByQRToken(ctx, qrToken)
	if err != nil {
		return nil, err
	}

	org, err := s.orgRepo.GetByID(ctx, m.OrganizationID())
	if err != nil && !errors.Is(err, corepersistence.ErrOrganizationNotFound) {
		return nil, err
	}
	var pub *boundary.PublicOrganization
	if org != nil && org.IsActive() {
		pub = &boundary.PublicOrganization{ID: org.ID(), Name: org.Name()}
	}
	validated, err := boundary.ValidatePublicOrganizationContextRequired(pub)
	if err != nil {
		return nil, err
	}

	var created *issue.Issue
	err = composables.InOrgTx(composables.WithOrgID(ctx, validated.ID), func(txCtx context.Context) error {
		st, err := s.statusRepo.GetDefault(txCtx)
		if err != nil {
			return err
		}

		opts := []issue.Option{}
		if report.Description != "" {
			opts = append(opts, issue.WithDescription(report.Description))
		}
		if report.ReporterName != "" {
			opts = append(opts, issue.WithReporterName(report.ReporterName))
		}
		if report.Severity != "" {
			opts = append(opts, issue.WithSeverity(report.Severity))
		}
		if report.Consistency != "" {
			opts = append(opts, issue.WithConsistency(report.Consistency))
		}

		fresh := issue.New(validated.ID, m.ID(), st.ID(), report.Title, opts...)
		if _, err := s.repo.Create(txCtx, fresh); err != nil {
			return err
		}
		if err := s.recordCreation(txCtx, fresh, ""); err != nil {
			return err
		}
		created, err = s.repo.GetByID(txCtx, fresh.ID())
		if err != nil {
			return err
		}
		return enqueueIssueEvent(txCtx, s.outbox, issue.TopicCreated, issuePayload(created, ""))
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Export renders the organization's issues into an XLSX workbook.
func (s *IssueService) Export(ctx context.Context) ([]byte, error) {
	if err := authorizeIssueRecords(ctx, "export"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			i.title AS "Title",
			md.name AS "Machine",
			loc.name AS "Location",
			st.name AS "Status",
			i.priority AS "Priority",
			i.severity AS "Severity",
			i.consistency AS "Consistency",
			COALESCE(ru.first_name || ' ' || ru.last_name, i.reporter_name, '') AS "Reporter",
			COALESCE(au.first_name || ' ' || au.last_name, '') AS "Assignee",
			i.created_at AS "Reported",
			i.resolved_at AS "Resolved"
		FROM issues i
		LEFT JOIN machines mc ON i.machine_id = mc.id
		LEFT JOIN machine_models md ON mc.model_id = md.id
		LEFT JOIN locations loc ON mc.location_id = loc.id
		LEFT JOIN issue_statuses st ON i.status_id = st.id
		LEFT JOIN users ru ON i.reporter_id = ru.id
		LEFT JOIN users au ON i.assignee_id = au.id
		WHERE i.organization_id = $1
		ORDER BY i.created_at DESC`
	return s.exportService.ExportFromQuery(ctx, query, []any{orgID}, "Issues")
}

// resolveStatus loads the requested status, or the organization's default
// when none was named.
func (s *IssueService) resolveStatus(ctx context.Context, statusID string) (*status.Status, error) {
	if statusID == "" {
		return s.statusRepo.GetDefault(ctx)
	}
	return s.statusRepo.GetByID(ctx, statusID)
}

func (s *IssueService) assigneeMembership(ctx context.Context, orgID, userID string) (*membership.Membership, error) {
	m, err := s.membershipRepo.GetByUserAndOrganization(ctx, userID, orgID)
	if err != nil && !errors.Is(err, corepersistence.ErrMembershipNotFound) {
		return nil, err
	}

	var bm *boundary.Membership
	if m != nil {
		bm = m.Boundary()
	}
	if res := boundary.ValidateOrganizationMembership(bm, orgID, userID); res.Err() != nil {
		return nil, res.Err()
	}
	return m, nil
}

// recordCreation writes the feed entry for a brand-new issue: the full
// image as the change, nothing to roll back to.
func (s *IssueService) recordCreation(ctx context.Context, i *issue.Issue, actorID string) error {
	patch, err := jsondiff.Compare(issue.Snapshot{}, i.Snapshot())
	if err != nil {
		return errors.Wrap(err, "diff issue snapshots")
	}
	body, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	return s.recordActivity(ctx, i, actorID, activity.ActionCreated, body, emptyPatch)
}

func (s *IssueService) recordActivity(ctx context.Context, i *issue.Issue, actorID string, action activity.Action, changes, rollback json.RawMessage) error {
	if changes == nil {
		changes = emptyPatch
	}
	if rollback == nil {
		rollback = emptyPatch
	}
	_, err := s.activityRepo.Create(ctx, activity.New(i.OrganizationID(), i.ID(), actorID, action, changes, rollback))
	return err
}

// enqueueIssueEvent writes one lifecycle event into the notification outbox
// on the transaction already in context.
func enqueueIssueEvent(ctx context.Context, pub outbox.Publisher, topic string, payload issue.EventPayload) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := pub.Enqueue(ctx, tx, notificationOutbox, outbox.Message{
		OrganizationID: payload.OrganizationID,
		Topic:          topic,
		EventID:        uuid.New(),
		Payload:        body,
	}); err != nil {
		return errors.Wrap(err, "enqueue issue event")
	}
	return nil
}

// snapshotDiff computes the forward and reverse RFC 6902 patches between two
// issue images. Both are nil when nothing changed.
func snapshotDiff(before, after issue.Snapshot) (json.RawMessage, json.RawMessage, error) {
	patch, err := jsondiff.Compare(before, after)
	if err != nil {
		return nil, nil, errors.Wrap(err, "diff issue snapshots")
	}
	if len(patch) == 0 {
		return nil, nil, nil
	}
	changes, err := json.Marshal(patch)
	if err != nil {
		return nil, nil, err
	}
	reverse, err := jsondiff.Compare(after, before)
	if err != nil {
		return nil, nil, errors.Wrap(err, "diff issue snapshots")
	}
	rollback, err := json.Marshal(reverse)
	if err != nil {
		return nil, nil, err
	}
	return changes, rollback, nil
}

// issuePayload captures everything a notification about the issue could
// address, so consumers never read back into this module.
func issuePayload(i *issue.Issue, actorID string) issue.EventPayload {
	p := issue.EventPayload{
		IssueID:        i.ID(),
		OrganizationID: i.OrganizationID(),
		MachineID:      i.MachineID(),
		Title:          i.Title(),
		ReporterID:     i.ReporterID(),
		AssigneeID:     i.AssigneeID(),
		ActorID:        actorID,
	}
	if m := i.Machine(); m != nil {
		p.MachineOwnerID = m.OwnerID()
	}
	if st := i.Status(); st != nil {
		p.StatusName = st.Name()
	}
	return p
}
