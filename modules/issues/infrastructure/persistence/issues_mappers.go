package persistence

import (
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/activity"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/comment"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
	"github.com/pinpoint-collective/pinpoint/modules/issues/infrastructure/persistence/models"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
)

func ToDomainStatus(dbStatus *models.Status) *status.Status {
	return status.New(
		dbStatus.OrganizationID,
		dbStatus.Name,
		status.Category(dbStatus.Category),
		status.WithID(dbStatus.ID),
		status.WithDefault(dbStatus.IsDefault),
		status.WithSortOrder(dbStatus.SortOrder),
		status.WithCreatedAt(dbStatus.CreatedAt),
		status.WithUpdatedAt(dbStatus.UpdatedAt),
	)
}

func ToDomainIssue(dbIssue *models.Issue, mch *machine.Machine, st *status.Status) *issue.Issue {
	opts := []issue.Option{
		issue.WithID(dbIssue.ID),
		issue.WithDescription(dbIssue.Description),
		issue.WithPriority(issue.Priority(dbIssue.Priority)),
		issue.WithSeverity(issue.Severity(dbIssue.Severity)),
		issue.WithConsistency(issue.Consistency(dbIssue.Consistency)),
		issue.WithCreatedAt(dbIssue.CreatedAt),
		issue.WithUpdatedAt(dbIssue.UpdatedAt),
	}
	if dbIssue.ReporterID.Valid {
		opts = append(opts, issue.WithReporterID(dbIssue.ReporterID.String))
	}
	if dbIssue.ReporterName.Valid {
		opts = append(opts, issue.WithReporterName(dbIssue.ReporterName.String))
	}
	if dbIssue.AssigneeID.Valid {
		opts = append(opts, issue.WithAssigneeID(dbIssue.AssigneeID.String))
	}
	if dbIssue.ResolvedAt.Valid {
		resolvedAt := dbIssue.ResolvedAt.Time
		opts = append(opts, issue.WithResolvedAt(&resolvedAt))
	}
	if mch != nil {
		opts = append(opts, issue.WithMachine(mch))
	}
	if st != nil {
		opts = append(opts, issue.WithStatus(st))
	}
	return issue.New(
		dbIssue.OrganizationID,
		dbIssue.MachineID,
		dbIssue.StatusID,
		dbIssue.Title,
		opts...,
	)
}

func ToDomainComment(dbComment *models.Comment) *comment.Comment {
	opts := []comment.Option{
		comment.WithID(dbComment.ID),
		comment.WithCreatedAt(dbComment.CreatedAt),
		comment.WithUpdatedAt(dbComment.UpdatedAt),
	}
	if dbComment.DeletedAt.Valid {
		deletedAt := dbComment.DeletedAt.Time
		opts = append(opts, comment.WithDeletedAt(&deletedAt))
	}
	return comment.New(
		dbComment.OrganizationID,
		dbComment.IssueID,
		dbComment.AuthorID,
		dbComment.Content,
		opts...,
	)
}

func ToDomainActivity(dbActivity *models.Activity) *activity.Activity {
	actorID := ""
	if dbActivity.ActorID.Valid {
		actorID = dbActivity.ActorID.String
	}
	return activity.New(
		dbActivity.OrganizationID,
		dbActivity.IssueID,
		actorID,
		activity.Action(dbActivity.Action),
		dbActivity.Changes,
		dbActivity.Rollback,
		activity.WithID(dbActivity.ID),
		activity.WithCreatedAt(dbActivity.CreatedAt),
	)
}
