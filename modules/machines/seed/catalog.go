package seed

import (
	"context"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"

	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/entities/model"
	"github.com/pinpoint-collective/pinpoint/modules/machines/infrastructure/persistence"
	"github.com/pinpoint-collective/pinpoint/pkg/application"
)

type catalogModel struct {
	Name         string `toml:"name"`
	Manufacturer string `toml:"manufacturer"`
	Year         int    `toml:"year"`
	Type         string `toml:"type"`
	OPDBID       string `toml:"opdb_id"`
}

type catalogFile struct {
	Models []catalogModel `toml:"models"`
}

// LoadCatalog parses a TOML machine catalog into domain models. Entries
// match on OPDB id when imported, so re-running an import refreshes rather
// than duplicates.
func LoadCatalog(path string) ([]*model.Model, error) {
	var file catalogFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, errors.Wrapf(err, "failed to parse catalog file %s", path)
	}

	entries := make([]*model.Model, 0, len(file.Models))
	for i, entry := range file.Models {
		if entry.Name == "" {
			return nil, errors.Errorf("catalog entry %d has no name", i)
		}
		machineType := model.Type(entry.Type)
		if !machineType.IsValid() {
			return nil, errors.Errorf("catalog entry %q has unknown machine type %q", entry.Name, entry.Type)
		}

		opts := []model.Option{}
		if entry.OPDBID != "" {
			opts = append(opts, model.WithOPDBID(entry.OPDBID))
		}
		entries = append(entries, model.New(entry.Name, entry.Manufacturer, entry.Year, machineType, opts...))
	}
	return entries, nil
}

// CatalogSeedFunc upserts the packaged model catalog so a fresh install has
// titles to pick from.
func CatalogSeedFunc(path string) application.SeedFunc {
	return func(ctx context.Context, app application.Application) error {
		entries, err := LoadCatalog(path)
		if err != nil {
			return err
		}

		repo := persistence.NewModelRepository()
		for _, entry := range entries {
			if _, err := repo.Upsert(ctx, entry); err != nil {
				return errors.Wrapf(err, "failed to seed catalog model %s", entry.Name())
			}
		}
		return nil
	}
}
