package services_test

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	"github.com/pinpoint-collective/pinpoint/modules/machines/services"
)

// catalogStub serves a fixed catalog from memory; only the read paths the
// search needs are live.
type catalogStub struct {
	entries []*model.Model
}

func (s *catalogStub) Count(_ context.Context) (int64, error) {
	return int64(len(s.entries)), nil
}

func (s *catalogStub) GetAll(_ context.Context) ([]*model.Model, error) {
	sorted := make([]*model.Model, len(s.entries))
	copy(sorted, s.entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name() < sorted[j].Name() })
	return sorted, nil
}

func (s *catalogStub) GetByID(_ context.Context, id string) (*model.Model, error) {
	for _, entry := range s.entries {
		if entry.ID() == id {
			return entry, nil
		}
	}
	return nil, nil
}

func (s *catalogStub) GetByOPDBID(_ context.Context, opdbID string) (*model.Model, error) {
	for _, entry := range s.entries {
		if entry.OPDBID() == opdbID {
			return entry, nil
		}
	}
	return nil, nil
}

func (s *catalogStub) Create(_ context.Context, data *model.Model) (*model.Model, error) {
	s.entries = append(s.entries, data)
	return data, nil
}

func (s *catalogStub) Upsert(_ context.Context, data *model.Model) (*model.Model, error) {
	for i, entry := range s.entries {
		if entry.OPDBID() == data.OPDBID() {
			s.entries[i] = data
			return data, nil
		}
	}
	s.entries = append(s.entries, data)
	return data, nil
}

func testCatalog() *catalogStub {
	return &catalogStub{entries: []*model.Model{
		model.New("Medieval Madness", "Williams", 1997, model.TypeSS, model.WithOPDBID("G42Pk-MLeZP")),
		model.New("Attack from Mars", "Bally", 1995, model.TypeSS, model.WithOPDBID("GrknN-MQrdv")),
		model.New("The Addams Family", "Bally", 1992, model.TypeSS, model.WithOPDBID("G50WQ-MLeZE")),
		model.New("Monster Bash", "Williams", 1998, model.TypeSS, model.WithOPDBID("GRvPV-MNQ8e")),
		model.New("Fireball", "Bally", 1972, model.TypeEM, model.WithOPDBID("G4JDW-MZK8l")),
	}}
}

func TestModelSearchRanksByTitle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := services.NewModelService(testCatalog())

	results, err := svc.Search(ctx, "mediev", 10)
	require.NoError(t, err)
	require.NotEmpty(t, results)
	require.Equal(t, "Medieval Madness", results[0].Name())

	// A query that matches nothing comes back empty, not erroring.
	none, err := svc.Search(ctx, "zzzzzz", 10)
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestModelSearchEmptyQueryReturnsCatalogHead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := services.NewModelService(testCatalog())

	results, err := svc.Search(ctx, "", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)
	require.Equal(t, "Attack from Mars", results[0].Name())
}

func TestModelSearchHonorsLimit(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := services.NewModelService(testCatalog())

	results, err := svc.Search(ctx, "a", 2)
	require.NoError(t, err)
	require.LessOrEqual(t, len(results), 2)
}
