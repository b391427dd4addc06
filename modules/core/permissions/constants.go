package permissions

import (
	"github.com/google/uuid"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
)

var (
	OrganizationRead = &permission.Permission{
		ID:       uuid.MustParse("3e9a2f41-8a7c-4f5d-9b3a-6c1de82f4a01"),
		Name:     "Organization.Read",
		Resource: permission.ResourceOrganization,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	OrganizationUpdate = &permission.Permission{
		ID:       uuid.MustParse("5b81c7de-2f64-40f2-8f1b-9f3c2d74be02"),
		Name:     "Organization.Update",
		Resource: permission.ResourceOrganization,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
	OrganizationDelete = &permission.Permission{
		ID:       uuid.MustParse("90d24c1a-0b5e-4aef-bb3d-13a8c6f95e03"),
		Name:     "Organization.Delete",
		Resource: permission.ResourceOrganization,
		Action:   permission.ActionDelete,
		Modifier: permission.ModifierAll,
	}
	MemberCreate = &permission.Permission{
		ID:       uuid.MustParse("b41f0c3e-6d29-48a1-95c7-2ef8a3b1dc04"),
		Name:     "Member.Create",
		Resource: permission.ResourceMembership,
		Action:   permission.ActionCreate,
		Modifier: permission.ModifierAll,
	}
	MemberRead = &permission.Permission{
		ID:       uuid.MustParse("7c5e91a8-34fb-4d06-8e2a-d19b745cfa05"),
		Name:     "Member.Read",
		Resource: permission.ResourceMembership,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	MemberUpdate = &permission.Permission{
		ID:       uuid.MustParse("e2a67d90-18c3-45b2-bc4f-58d0a9e71f06"),
		Name:     "Member.Update",
		Resource: permission.ResourceMembership,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
	MemberDelete = &permission.Permission{
		ID:       uuid.MustParse("148bd52c-9ae7-4c31-a06d-3b7f62c84d07"),
		Name:     "Member.Delete",
		Resource: permission.ResourceMembership,
		Action:   permission.ActionDelete,
		Modifier: permission.ModifierAll,
	}
	RoleCreate = &permission.Permission{
		ID:       uuid.MustParse("6f3a8b5d-72e1-4098-bd5c-84a91f26eb08"),
		Name:     "Role.Create",
		Resource: permission.ResourceRole,
		Action:   permission.ActionCreate,
		Modifier: permission.ModifierAll,
	}
	RoleRead = &permission.Permission{
		ID:       uuid.MustParse("a90c4e27-5bd8-4f63-921e-c7f015d83a09"),
		Name:     "Role.Read",
		Resource: permission.ResourceRole,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	RoleUpdate = &permission.Permission{
		ID:       uuid.MustParse("d17e62f4-8c05-49ba-af38-952b07c1ed0a"),
		Name:     "Role.Update",
		Resource: permission.ResourceRole,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
	RoleDelete = &permission.Permission{
		ID:       uuid.MustParse("2b84f9c6-e3d7-4215-b0a9-17c6d58f3e0b"),
		Name:     "Role.Delete",
		Resource: permission.ResourceRole,
		Action:   permission.ActionDelete,
		Modifier: permission.ModifierAll,
	}
	InvitationCreate = &permission.Permission{
		ID:       uuid.MustParse("58c2d7a1-49ef-4b80-9d36-f0e8b34a7c0c"),
		Name:     "Invitation.Create",
		Resource: permission.ResourceInvitation,
		Action:   permission.ActionCreate,
		Modifier: permission.ModifierAll,
	}
	InvitationRead = &permission.Permission{
		ID:       uuid.MustParse("c3f08e9b-27d4-4a56-8b12-69e5a0d17f0d"),
		Name:     "Invitation.Read",
		Resource: permission.ResourceInvitation,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	InvitationDelete = &permission.Permission{
		ID:       uuid.MustParse("f61b35d8-0a92-47ce-9f84-d23c81b65e0e"),
		Name:     "Invitation.Delete",
		Resource: permission.ResourceInvitation,
		Action:   permission.ActionDelete,
		Modifier: permission.ModifierAll,
	}
	UserRead = &permission.Permission{
		ID:       uuid.MustParse("4d96a0e3-b158-4f27-8cd9-30f7e24a8b0f"),
		Name:     "User.Read",
		Resource: permission.ResourceUser,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	UserUpdate = &permission.Permission{
		ID:       uuid.MustParse("81f5c2d9-6e40-4d83-ba71-59a8f03c6d10"),
		Name:     "User.Update",
		Resource: permission.ResourceUser,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
)

var Permissions = []*permission.Permission{
	OrganizationRead,
	OrganizationUpdate,
	OrganizationDelete,
	MemberCreate,
	MemberRead,
	MemberUpdate,
	MemberDelete,
	RoleCreate,
	RoleRead,
	RoleUpdate,
	RoleDelete,
	InvitationCreate,
	InvitationRead,
	InvitationDelete,
	UserRead,
	UserUpdate,
}
