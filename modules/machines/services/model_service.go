package services

import (
	"context"
	"sort"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	"github.com/pinpoint-collective/pinpoint/pkg/authz"
	"github.com/pinpoint-collective/pinpoint/pkg/composables"
)

var machinesAuthzObject = authz.ObjectName("machines", "machines")

// defaultSearchLimit caps catalog search results when the caller does not
// ask for a specific page size.
const defaultSearchLimit = 25

// ModelService serves the shared machine model catalog. Catalog reads ride
// on the machine read grant since browsing titles is part of managing
// machines; imports come from the ops CLI and carry no request actor.
type ModelService struct {
	repo model.Repository
}

func NewModelService(repo model.Repository) *ModelService {
	return &ModelService{repo: repo}
}

func (s *ModelService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *ModelService) GetAll(ctx context.Context) ([]*model.Model, error) {
	if err := authorizeMachines(ctx, machinesAuthzObject, "list"); err != nil {
		return nil, err
	}
	return s.repo.GetAll(ctx)
}

func (s *ModelService) GetByID(ctx context.Context, id string) (*model.Model, error) {
	if err := authorizeMachines(ctx, machinesAuthzObject, "view"); err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// Search ranks catalog entries against the query by fuzzy match on the
// title. An empty query returns the catalog head in alphabetical order.
func (s *ModelService) Search(ctx context.Context, query string, limit int) ([]*model.Model, error) {
	if err := authorizeMachines(ctx, machinesAuthzObject, "list"); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}

	entries, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		if len(entries) > limit {
			entries = entries[:limit]
		}
		return entries, nil
	}

	words := make([]string, len(entries))
	for i, entry := range entries {
		words[i] = entry.Label()
	}
	ranks := fuzzy.RankFindNormalizedFold(query, words)
	sort.Sort(ranks)

	result := make([]*model.Model, 0, len(ranks))
	for _, rank := range ranks {
		if len(result) == limit {
			break
		}
		result = append(result, entries[rank.OriginalIndex])
	}
	return result, nil
}

// ImportCatalog upserts the given entries, matching on OPDB id. It returns
// the number of rows written.
func (s *ModelService) ImportCatalog(ctx context.Context, entries []*model.Model) (int, error) {
	imported := 0
	err := composables.InTx(ctx, func(txCtx context.Context) error {
		for _, entry := range entries {
			if _, err := s.repo.Upsert(txCtx, entry); err != nil {
				return err
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}
