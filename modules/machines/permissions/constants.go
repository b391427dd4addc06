package permissions

import (
	"github.com/google/uuid"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/permission"
)

var (
	LocationCreate = &permission.Permission{
		ID:       uuid.MustParse("1a7f3c52-9d48-4e06-b3a1-82c5f47d9e11"),
		Name:     "Location.Create",
		Resource: permission.ResourceLocation,
		Action:   permission.ActionCreate,
		Modifier: permission.ModifierAll,
	}
	LocationRead = &permission.Permission{
		ID:       uuid.MustParse("8e24b9d7-61af-4c35-92e8-5d0b3a71fc12"),
		Name:     "Location.Read",
		Resource: permission.ResourceLocation,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	LocationUpdate = &permission.Permission{
		ID:       uuid.MustParse("c5d18f30-27b6-49e2-8a4d-91f7e62c3b13"),
		Name:     "Location.Update",
		Resource: permission.ResourceLocation,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
	LocationDelete = &permission.Permission{
		ID:       uuid.MustParse("49a6e2c8-f50d-4b17-bc93-670a8d45fe14"),
		Name:     "Location.Delete",
		Resource: permission.ResourceLocation,
		Action:   permission.ActionDelete,
		Modifier: permission.ModifierAll,
	}
	MachineCreate = &permission.Permission{
		ID:       uuid.MustParse("d08b57f1-3ca9-4620-9e5b-14d2c78a3f15"),
		Name:     "Machine.Create",
		Resource: permission.ResourceMachine,
		Action:   permission.ActionCreate,
		Modifier: permission.ModifierAll,
	}
	MachineRead = &permission.Permission{
		ID:       uuid.MustParse("62c90ad4-85e7-4f38-a1c6-b93f50e27d16"),
		Name:     "Machine.Read",
		Resource: permission.ResourceMachine,
		Action:   permission.ActionRead,
		Modifier: permission.ModifierAll,
	}
	MachineUpdate = &permission.Permission{
		ID:       uuid.MustParse("f7315e89-0b2d-4a64-8d97-c60ea42b5f17"),
		Name:     "Machine.Update",
		Resource: permission.ResourceMachine,
		Action:   permission.ActionUpdate,
		Modifier: permission.ModifierAll,
	}
	MachineDelete = &permission.Permission{
		ID:       uuid.MustParse("3b68d1f5-a42c-4790-bf28-59e1c06d8a18"),
		Name:     "Machine.Delete",
		Resource: permission.ResourceMachine,
		Action:   permission.ActionDelete,
		Modifier: permission.ModifierAll,
	}
)

var Permissions = []*permission.Permission{
	LocationCreate,
	LocationRead,
	LocationUpdate,
	LocationDelete,
	MachineCreate,
	MachineRead,
	MachineUpdate,
	MachineDelete,
}
