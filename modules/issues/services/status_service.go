package services

import (
	"context"

	"github.com/go-faster/errors"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/aggregates/issue"
	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/boundary"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

var statusesAuthzObject = authz.ObjectName("issues", "statuses")

var (
	ErrStatusInUse     = errors.New("status still has issues in it")
	ErrDefaultStatus   = errors.New("the default status cannot be deleted")
	ErrInvalidCategory = errors.New("unknown status category")
)

// stockStatuses is the set every organization starts with. The first entry
// is the default for new reports.
var stockStatuses = []struct {
	Name     string
	Category status.Category
}{
	{"New", status.CategoryNew},
	{"Acknowledged", status.CategoryNew},
	{"In Progress", status.CategoryInProgress},
	{"Fixed", status.CategoryResolved},
	{"Not to be Fixed", status.CategoryResolved},
	{"Not Reproducible", status.CategoryResolved},
}

func authorizeStatuses(ctx context.Context, action string) error {
	return authorizeIssues(ctx, statusesAuthzObject, action)
}

func validateStatusBoundary(st *status.Status, orgID string) error {
	return boundary.ValidateResourceOrganizationBoundary(boundary.ResourceOwnership{
		ResourceID:             st.ID(),
		ResourceOrganizationID: st.OrganizationID(),
		ExpectedOrganizationID: orgID,
		ResourceType:           "Status",
	}).Err()
}

type StatusService struct {
	repo      status.Repository
	issueRepo issue.Repository
}

func NewStatusService(repo status.Repository, issueRepo issue.Repository) *StatusService {
	return &StatusService{
		repo:      repo,
		issueRepo: issueRepo,
	}
}

func (s *StatusService) GetAll(ctx context.Context) ([]*status.Status, error) {
	if err := authorizeStatuses(ctx, "list"); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx)
}

func (s *StatusService) GetByID(ctx context.Context, id string) (*status.Status, error) {
	if err := authorizeStatuses(ctx, "view"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	st, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validateStatusBoundary(st, orgID); err != nil {
		return nil, err
	}
	return st, nil
}

func (s *StatusService) Create(ctx context.Context, name string, category status.Category, sortOrder int) (*status.Status, error) {
	if err := authorizeStatuses(ctx, "create"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}

	var created *status.Status
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		created, err = s.repo.Create(txCtx, status.New(orgID, name, category, status.WithSortOrder(sortOrder)))
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *StatusService) Update(ctx context.Context, id, name string, category status.Category, sortOrder int) (*status.Status, error) {
	if err := authorizeStatuses(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}

	var updated *status.Status
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		st, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := validateStatusBoundary(st, orgID); err != nil {
			return err
		}

		st.Rename(name)
		st.SetCategory(category)
		st.SetSortOrder(sortOrder)
		if err := s.repo.Update(txCtx, st); err != nil {
			return err
		}
		updated = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetDefault makes the given status the one new reports land in. The flag
// moves atomically; there is never a moment with two defaults.
func (s *StatusService) SetDefault(ctx context.Context, id string) (*status.Status, error) {
	if err := authorizeStatuses(ctx, "update"); err != nil {
		return nil, err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return nil, err
	}

	var updated *status.Status
	err = composables.InOrgTx(ctx, func(txCtx context.Context) error {
		st, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := validateStatusBoundary(st, orgID); err != nil {
			return err
		}

		if err := s.repo.ClearDefault(txCtx); err != nil {
			return err
		}
		st.MarkDefault()
		if err := s.repo.Update(txCtx, st); err != nil {
			return err
		}
		updated = st
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a status once no issue sits in it. The default status has
// to be handed off first so new reports always have somewhere to land.
func (s *StatusService) Delete(ctx context.Context, id string) error {
	if err := authorizeStatuses(ctx, "delete"); err != nil {
		return err
	}
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	return composables.InOrgTx(ctx, func(txCtx context.Context) error {
		st, err := s.repo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := validateStatusBoundary(st, orgID); err != nil {
			return err
		}
		if st.IsDefault() {
			return ErrDefaultStatus
		}

		open, err := s.issueRepo.CountByStatus(txCtx, id)
		if err != nil {
			return err
		}
		if open > 0 {
			return ErrStatusInUse
		}
		return s.repo.Delete(txCtx, id)
	})
}

// SeedStock creates the stock status set for the organization in context.
// Organizations that already have statuses are left alone, so the seeder can
// run repeatedly.
func (s *StatusService) SeedStock(ctx context.Context) error {
	orgID, err := composables.UseOrgID(ctx)
	if err != nil {
		return err
	}

	return composables.InOrgTx(ctx, func(txCtx context.Context) error {
		existing, err := s.repo.GetAll(txCtx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return nil
		}

		for i, stock := range stockStatuses {
			st := status.New(orgID, stock.Name, stock.Category,
				status.WithSortOrder(i+1),
				status.WithDefault(i == 0),
			)
			if _, err := s.repo.Create(txCtx, st); err != nil {
				return errors.Wrapf(err, "seed status %q", stock.Name)
			}
		}
		return nil
	})
}
