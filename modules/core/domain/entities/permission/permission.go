package permission

import (
	"context"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

type Modifier string

const (
	ModifierAll Modifier = "all"
	ModifierOwn Modifier = "own"
)

type Resource string

const (
	ResourceUser         Resource = "user"
	ResourceRole         Resource = "role"
	ResourceOrganization Resource = "organization"
	ResourceMembership   Resource = "membership"
	ResourceInvitation   Resource = "invitation"
	ResourceLocation     Resource = "location"
	ResourceMachine      Resource = "machine"
	ResourceIssue        Resource = "issue"
	ResourceComment      Resource = "comment"
	ResourceNotification Resource = "notification"
)

// Permission is a named grant over a resource. Name follows the
// "<Entity>.<Action>" convention used in policy files and role seeds.
type Permission struct {
	ID       uuid.UUID
	Name     string
	Resource Resource
	Action   Action
	Modifier Modifier
}

func (p *Permission) Equals(other *Permission) bool {
	if other == nil {
		return false
	}
	return p.ID == other.ID
}

// PolicyObject returns the module-qualified object this permission grants
// access to in the policy engine.
func (p *Permission) PolicyObject() string {
	switch p.Resource {
	case ResourceUser:
		return "core.users"
	case ResourceRole:
		return "core.roles"
	case ResourceOrganization:
		return "core.organizations"
	case ResourceMembership:
		return "core.members"
	case ResourceInvitation:
		return "core.invitations"
	case ResourceLocation:
		return "machines.locations"
	case ResourceMachine:
		return "machines.machines"
	case ResourceIssue:
		return "issues.issues"
	case ResourceComment:
		return "issues.comments"
	case ResourceNotification:
		return "notifications.notifications"
	default:
		return "global." + string(p.Resource)
	}
}

// PolicyActions expands the catalog action into the guard vocabulary used at
// enforcement time. Read covers single fetches, listings and exports.
func (p *Permission) PolicyActions() []string {
	switch p.Action {
	case ActionRead:
		return []string{"view", "list", "export"}
	default:
		return []string{string(p.Action)}
	}
}

// PolicyPairs flattens a permission set into (object, action) rules for the
// policy engine.
func PolicyPairs(permissions []*Permission) [][2]string {
	var pairs [][2]string
	for _, p := range permissions {
		obj := p.PolicyObject()
		for _, act := range p.PolicyActions() {
			pairs = append(pairs, [2]string{obj, act})
		}
	}
	return pairs
}

type Repository interface {
	GetAll(ctx context.Context) ([]*Permission, error)
	Save(ctx context.Context, permissions []*Permission) error
}
