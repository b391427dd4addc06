package permissions

import (
	"github.com/google/uuid"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
)

var (
	IssueCreate = &permission.Permission{
		ID:       uuid.MustParse("a4d27c91-5e83-4b60-9f12-37c8d05e6a21"),
		Name:     "Issue.Create",
		Resource: permission.ResourceIssue,
		Action:   permission.ActionCreate,
		Modifier: permission.ModifierAll,
	}
	IssueRead = &permission.Permission{
		ID:       uuid.MustParse("0b93e65f-17ad-4c28-b5d4-68f0a29c7e22"),
		Name:     "Issue.Read",
		Resource: permission.ResourceIssue,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	IssueUpdate = &permission.Permission{
		ID:       uuid.MustParse("7f58a3d0-c926-4e71-82b9-d14e06f5bc23"),
		Name:     "Issue.Update",
		Resource: permission.ResourceIssue,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
	IssueDelete = &permission.Permission{
		ID:       uuid.MustParse("e1c60b84-92f5-4d37-a058-4b7d93e12f24"),
		Name:     "Issue.Delete",
		Resource: permission.ResourceIssue,
		Action:   permission.ActionDelete,
		Modifier: permission.ModifierAll,
	}
	CommentCreate = &permission.Permission{
		ID:       uuid.MustParse("58f4d2a7-30cb-4916-bd63-c29e85a07f25"),
		Name:     "Comment.Create",
		Resource: permission.ResourceComment,
		Action:   permission.ActionCreate,
		Modifier: permission.ModifierAll,
	}
	CommentRead = &permission.Permission{
		ID:       uuid.MustParse("c20a9e53-d761-4f84-9b07-16f3d48c0e26"),
		Name:     "Comment.Read",
		Resource: permission.ResourceComment,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	CommentUpdate = &permission.Permission{
		ID:       uuid.MustParse("96b1f7e2-48d0-4a53-8c2e-70a5d91b3f27"),
		Name:     "Comment.Update",
		Resource: permission.ResourceComment,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
	CommentDelete = &permission.Permission{
		ID:       uuid.MustParse("4da25c80-b1f9-4637-95ad-82e0c64d7f28"),
		Name:     "Comment.Delete",
		Resource: permission.ResourceComment,
		Action:   permission.ActionDelete,
		Modifier: permission.ModifierAll,
	}
)

var Permissions = []*permission.Permission{
	IssueCreate,
	IssueRead,
	IssueUpdate,
	IssueDelete,
	CommentCreate,
	CommentRead,
	CommentUpdate,
	CommentDelete,
}
