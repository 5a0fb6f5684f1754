package domain

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSourcesParsesLabels(t *testing.T) {
	dir := t.TempDir()
	filePath := filepath.Join(dir, "domains.txt")
	data := "# production\nGameStores.us.com.|namecheap-main\n\n   \nexample.com\n#disabled.com\n"
	if err := os.WriteFile(filePath, []byte(data), 0o644); err != nil {
		t.Fatalf("failed to write temp domain file: %v", err)
	}

	repo := NewFileRepository([]string{filePath})
	sources, err := repo.LoadSources()
	if err != nil {
		t.Fatalf("LoadSources returned error: %v", err)
	}

	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}

	first := sources[0]
	if first.Domain != "gamestores.us.com" {
		t.Errorf("unexpected domain: %s", first.Domain)
	}
	if first.Source != "namecheap-main" {
		t.Errorf("expected source to use second column, got %s", first.Source)
	}

	second := sources[1]
	if second.Domain != "example.com" {
		t.Errorf("unexpected domain: %s", second.Domain)
	}
	if second.Source != filePath {
		t.Errorf("expected source to fall back to path, got %s", second.Source)
	}
}

func TestLoadSourcesMissingFile(t *testing.T) {
	repo := NewFileRepository([]string{filepath.Join(t.TempDir(), "missing.txt")})
	if _, err := repo.LoadSources(); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestListRepositoryKeepsOrderAndDuplicates(t *testing.T) {
	repo := NewListRepository("b.com\n\n# comment\na.com\nb.com\n", "")
	got, err := repo.LoadSources()
	if err != nil {
		t.Fatalf("LoadSources returned error: %v", err)
	}
	want := []string{"b.com", "a.com", "b.com"}
	if len(got) != len(want) {
		t.Fatalf("expected %d domains, got %d", len(want), len(got))
	}
	for i, ds := range got {
		if ds.Domain != want[i] {
			t.Errorf("position %d: got %s, want %s", i, ds.Domain, want[i])
		}
		if ds.Source != EnvSource {
			t.Errorf("position %d: unexpected source %s", i, ds.Source)
		}
	}
}
