package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/location"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

var locationsAuthzObject = authz.ObjectName("machines", "locations")

var (
	ErrLocationInUse = errors.New("location still has machines placed at it")
)

func authorizeLocations(ctx context.Context, action string) error {
	return authorizeMachines(ctx, locationsAuthzObject, action)
}

type LocationService struct {
	repo        location.Repository
	machineRepo machine.Repository
}

func NewLocationService(repo location.Repository, machineRepo machine.Repository) *LocationService {
	return &LocationService{
		repo:        repo,
		machineRepo: machineRepo,
	}
}

func (s *LocationService) GetAll(ctx context.Context) ([]*location.Location, error) {
	if err := authorizeLocations(ctx, "list"); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx)
}

func (s *LocationService) GetByID(ctx context.Context, id string) (*location.Location, error) {
	if err := authorizeLocations(ctx, "view"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	loc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := boundary.ValidateLocationOrganizationBoundary(loc.ID(), loc.OrganizationID(), orgID).Err(); err != nil {
		return nil, err
	}
	return loc, nil
}

func (s *LocationService) Create(ctx context.Context, name, street, city string) (*location.Location, error) {
	if err := authorizeLocations(ctx, "create"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	var created *location.Location
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		created, err = s.repo.Create(txCtx, location.New(orgID, name, street, city))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *LocationService) Update(ctx context.Context, id, name, street, city string) (*location.Location, error) {
	if err := authorizeLocations(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	var updated *location.Location
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		loc, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := boundary.ValidateLocationOrganizationBoundary(loc.ID(), loc.OrganizationID(), orgID).Err(); err != nil {
			return err
		}

		loc.SetName(name)
		loc.SetAddress(street, city)
		if err := s.repo.Update(txCtx, loc); err != nil {
			return err
		}
		updated = loc
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a location once nothing is placed there. Machines must be
// moved or deleted first.
func (s *LocationService) Delete(ctx context.Context, id string) error {
	if err := authorizeLocations(ctx, "delete"); err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	return composables.InOrgTx(ctx, func(txCtx context.Context) error {
		loc, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := boundary.ValidateLocationOrganizationBoundary(loc.ID(), loc.OrganizationID(), orgID).Err(); err != nil {
			return err
		}

		placed, err := s.machineRepo.CountByLocation(txCtx, id)
		if err != nil {
			return err
		}
		if placed > 0 {
			return ErrLocationInUse
		}
		return s.repo.Delete(txCtx, id)
	})
}
