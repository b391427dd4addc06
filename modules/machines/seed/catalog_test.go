package seed_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pinpoint-collective/pinpoint/modules/machines/seed"
)

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "models.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, `
[[models]]
name = "Medieval Madness"
manufacturer = "Williams"
year = 1997
type = "ss"
opdb_id = "G42Pk-MQrZe"

[[models]]
name = "Fireball"
manufacturer = "Bally"
year = 1972
type = "em"
`)

	entries, err := seed.LoadCatalog(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Name() != "Medieval Madness" || entries[0].OPDBID() != "G42Pk-MQrZe" {
		t.Errorf("unexpected first entry: %s / %s", entries[0].Name(), entries[0].OPDBID())
	}
	if entries[1].OPDBID() != "" {
		t.Errorf("entry without opdb_id should keep it empty, got %q", entries[1].OPDBID())
	}
	if entries[1].Year() != 1972 {
		t.Errorf("unexpected year: %d", entries[1].Year())
	}
}

func TestLoadCatalogRejectsUnknownType(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, `
[[models]]
name = "Mystery Machine"
type = "vr"
`)
	if _, err := seed.LoadCatalog(path); err == nil {
		t.Fatal("expected an error for unknown machine type")
	}
}

func TestLoadCatalogRejectsMissingName(t *testing.T) {
	t.Parallel()

	path := writeCatalog(t, `
[[models]]
manufacturer = "Stern"
type = "ss"
`)
	if _, err := seed.LoadCatalog(path); err == nil {
		t.Fatal("expected an error for a nameless entry")
	}
}

func TestLoadCatalogPackagedFile(t *testing.T) {
	t.Parallel()

	entries, err := seed.LoadCatalog(filepath.Join("..", "..", "..", "config", "catalog", "models.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Fatal("packaged catalog should not be empty")
	}
	for _, entry := range entries {
		if entry.OPDBID() == "" {
			t.Errorf("packaged entry %q has no opdb_id", entry.Name())
		}
	}
}
