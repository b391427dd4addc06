package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/core/domain/aggregates/organization"
	"github.com/pinpoint-collective/pinpoint/modules/core/domain/entities/membership"
	corepersistence "github.com/pinpoint-collective/pinpoint/modules/core/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/location"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
	"github.com/pinpoint-collective/pinpoint/pkg/eventbus"
)

func authorizeMachineRecords(ctx context.Context, action string) error {
	return authorizeMachines(ctx, machinesAuthzObject, action)
}

// QRContext is what a scanned sticker resolves to: the machine with its
// model and location, and the public identity of the organization that owns
// it.
type QRContext struct {
	Machine      *machine.Machine
	Organization *boundary.PublicOrganization
}

type MachineService struct {
	repo           machine.Repository
	modelRepo      model.Repository
	locationRepo   location.Repository
	membershipRepo membership.Repository
	orgRepo        organization.Repository
	publisher      eventbus.EventBus
}

func NewMachineService(
	repo machine.Repository,
	modelRepo model.Repository,
	locationRepo location.Repository,
	membershipRepo membership.Repository,
	orgRepo organization.Repository,
	publisher eventbus.EventBus,
) *MachineService {
	return &MachineService{
		repo:           repo,
		modelRepo:      modelRepo,
		locationRepo:   locationRepo,
		membershipRepo: membershipRepo,
		orgRepo:        orgRepo,
		publisher:      publisher,
	}
}

func (s *MachineService) GetAll(ctx context.Context) ([]*machine.Machine, error) {
	if err := authorizeMachineRecords(ctx, "list"); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx)
}

func (s *MachineService) GetByLocation(ctx context.Context, locationID string) ([]*machine.Machine, error) {
	if err := authorizeMachineRecords(ctx, "list"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	loc, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if err := boundary.ValidateLocationOrganizationBoundary(loc.ID(), loc.OrganizationID(), orgID).Err(); err != nil {
		return nil, err
	}
	return s.repo.GetByLocation(ctx, locationID)
}

func (s *MachineService) GetByID(ctx context.Context, id string) (*machine.Machine, error) {
	if err := authorizeMachineRecords(ctx, "view"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := boundary.ValidateMachineOrganizationBoundary(m.ID(), m.OrganizationID(), orgID).Err(); err != nil {
		return nil, err
	}
	return m, nil
}

// Create places a new machine. The referenced model, location and owner
// must all be visible to the active organization before the write happens.
func (s *MachineService) Create(ctx context.Context, modelID, locationID, ownerID string) (*machine.Machine, error) {
	if err := authorizeMachineRecords(ctx, "create"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	var created *machine.Machine
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		if err := s.validateRelated(txCtx, orgID, modelID, locationID, ownerID); err != nil {
			return err
		}

		opts := []machine.Option{}
		if ownerID != "" {
			opts = append(opts, machine.WithOwnerID(ownerID))
		}
		created, err = s.repo.Create(txCtx, machine.New(orgID, modelID, locationID, opts...))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(machine.NewCreatedEvent(ctx, *created))
	return created, nil
}

// Move relocates a machine to another of the organization's venues.
func (s *MachineService) Move(ctx context.Context, id, locationID string) (*machine.Machine, error) {
	if err := authorizeMachineRecords(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	var moved *machine.Machine
	var fromLocationID string
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		m, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := boundary.ValidateMachineOrganizationBoundary(m.ID(), m.OrganizationID(), orgID).Err(); err != nil {
			return err
		}
		if err := s.validateRelated(txCtx, orgID, m.ModelID(), locationID, m.OwnerID()); err != nil {
			return err
		}

		fromLocationID = m.LocationID()
		m.MoveTo(locationID)
		if err := s.repo.Update(txCtx, m); err != nil {
			return err
		}
		moved, err = s.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(machine.NewMovedEvent(ctx, *moved, fromLocationID))
	return moved, nil
}

// AssignOwner records which member owns the cabinet. An empty user id
// returns the machine to collective ownership.
func (s *MachineService) AssignOwner(ctx context.Context, id, userID string) (*machine.Machine, error) {
	if err := authorizeMachineRecords(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	var updated *machine.Machine
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		m, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := boundary.ValidateMachineOrganizationBoundary(m.ID(), m.OrganizationID(), orgID).Err(); err != nil {
			return err
		}

		if userID == "" {
			m.ClearOwner()
		} else {
			if err := s.validateOwner(txCtx, orgID, userID); err != nil {
				return err
			}
			m.AssignOwner(userID)
		}
		if err := s.repo.Update(txCtx, m); err != nil {
			return err
		}
		updated, err = s.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(machine.NewUpdatedEvent(ctx, *updated))
	return updated, nil
}

// RotateQRToken mints a fresh sticker token, invalidating the printed one.
func (s *MachineService) RotateQRToken(ctx context.Context, id string) (*machine.Machine, error) {
	if err := authorizeMachineRecords(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	var updated *machine.Machine
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		m, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := boundary.ValidateMachineOrganizationBoundary(m.ID(), m.OrganizationID(), orgID).Err(); err != nil {
			return err
		}

		m.RotateQRToken()
		if err := s.repo.Update(txCtx, m); err != nil {
			return err
		}
		updated, err = s.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publish(machine.NewUpdatedEvent(ctx, *updated))
	return updated, nil
}

func (s *MachineService) Delete(ctx context.Context, id string) error {
	if err := authorizeMachineRecords(ctx, "delete"); err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	var deleted *machine.Machine
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		m, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := boundary.ValidateMachineOrganizationBoundary(m.ID(), m.OrganizationID(), orgID).Err(); err != nil {
			return err
		}

		deleted = m
		return s.repo.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}

	s.publisher.Publish(machine.NewDeletedEvent(ctx, *deleted))
	return nil
}

// ResolveQR turns a sticker token into the machine and the public identity
// of the organization that owns it. No session or organization context is
// required; inactive organizations resolve as not found.
func (s *MachineService) ResolveQR(ctx context.Context, token string) (*QRContext, error) {
	m, err := s.repo.GetByQRToken(ctx, token)
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

	return &QRContext{Machine: m, Organization: validated}, nil
}

// validateRelated cross-checks every reference a machine write touches
// against the active organization. The model is global and passes by
// construction; the location and the owner's membership must belong to the
// organization.
func (s *MachineService) validateRelated(ctx context.Context, orgID, modelID, locationID, ownerID string) error {
	related := make([]boundary.RelatedEntity, 0, 3)

	mdl, err := s.modelRepo.GetByID(ctx, modelID)
	if err != nil {
		return err
	}
	related = append(related, boundary.RelatedEntity{
		EntityID:   mdl.ID(),
		EntityType: "Machine model",
		Org:        boundary.GlobalOrg(),
	})

	loc, err := s.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return err
	}
	related = append(related, boundary.RelatedEntity{
		EntityID:   loc.ID(),
		EntityType: "Location",
		Org:        boundary.OrgOf(loc.OrganizationID()),
	})

	if ownerID != "" {
		m, err := s.ownerMembership(ctx, orgID, ownerID)
		if err != nil {
			return err
		}
		related = append(related, boundary.RelatedEntity{
			EntityID:   m.ID(),
			EntityType: "Owner membership",
			Org:        boundary.OrgOf(m.OrganizationID()),
		})
	}

	return boundary.ValidateRelatedEntitiesOwnership(related, orgID).Err()
}

func (s *MachineService) validateOwner(ctx context.Context, orgID, userID string) error {
	_, err := s.ownerMembership(ctx, orgID, userID)
	return err
}

func (s *MachineService) ownerMembership(ctx context.Context, orgID, userID string) (*membership.Membership, error) {
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
