package mapping

import (
	"path/filepath"
	"testing"
)

func fixedNow() string { return "2026-07-31T00:00:00Z" }

func TestRepository_LoadMissingReturnsNilNil(t *testing.T) {
	repo, err := NewRepository(t.TempDir(), fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored, err := repo.Load("STUDY1", "AE")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored != nil {
		t.Fatalf("expected nil for missing file, got %+v", stored)
	}
}

func TestRepository_SaveThenLoadRoundTrips(t *testing.T) {
	dir := t.TempDir()
	repo, err := NewRepository(dir, fixedNow)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := NewConfig()
	cfg.SetManual("AETERM", "Event Term")
	if err := repo.Save("study 1", "ae", cfg, "initial mapping"); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	expectedPath := filepath.Join(dir, "STUDY_1_AE.json")
	stored, err := repo.Load("STUDY 1", "AE")
	if err != nil {
		t.Fatalf("load with differently-cased key failed: %v", err)
	}
	if stored == nil {
		t.Fatal("expected stored config")
	}
	if stored.Config["AETERM"].SourceColumn != "Event Term" {
		t.Errorf("unexpected round-tripped assignment: %+v", stored.Config["AETERM"])
	}
	if stored.Version != repositoryVersion {
		t.Errorf("expected version %q, got %q", repositoryVersion, stored.Version)
	}
	if repo.path("STUDY 1", "AE") != expectedPath {
		t.Errorf("expected path %q, got %q", expectedPath, repo.path("STUDY 1", "AE"))
	}
}

func TestKey_NormalizesNonAlphanumerics(t *testing.T) {
	if got := Key(" study-01 "); got != "STUDY_01" {
		t.Errorf("expected STUDY_01, got %q", got)
	}
}
