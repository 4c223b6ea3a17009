package mapping

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// repositoryVersion is the on-disk schema version written by Save.
const repositoryVersion = "1.0"

// Repository persists MappingConfig as `{STUDY}_{DOMAIN}.json` under a base
// directory.
type Repository struct {
	baseDir string
	nowFn   func() string
}

// NewRepository creates a Repository rooted at baseDir, creating it if
// necessary.
func NewRepository(baseDir string, nowFn func() string) (*Repository, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("mapping: create base dir %s: %w", baseDir, err)
	}
	return &Repository{baseDir: baseDir, nowFn: nowFn}, nil
}

// Key normalizes a study or domain identifier via upper(trim(id)) with
// non-alphanumerics mapped to '_'.
func Key(id string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(id))
	var b strings.Builder
	for _, r := range trimmed {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func (r *Repository) path(studyID, domainCode string) string {
	return filepath.Join(r.baseDir, fmt.Sprintf("%s_%s.json", Key(studyID), Key(domainCode)))
}

// Load returns (nil, nil) when the file is absent; parse failures propagate.
func (r *Repository) Load(studyID, domainCode string) (*StoredMappingConfig, error) {
	data, err := os.ReadFile(r.path(studyID, domainCode))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("mapping: read mapping config: %w", err)
	}
	var stored StoredMappingConfig
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("mapping: parse mapping config: %w", err)
	}
	return &stored, nil
}

// Save writes cfg as StoredMappingConfig JSON under `{STUDY}_{DOMAIN}.json`.
func (r *Repository) Save(studyID, domainCode string, cfg *Config, description string) error {
	stored := StoredMappingConfig{
		Config:      cfg.Assignments,
		SavedAt:     r.nowFn(),
		Description: description,
		Version:     repositoryVersion,
	}
	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return fmt.Errorf("mapping: marshal mapping config: %w", err)
	}
	if err := os.WriteFile(r.path(studyID, domainCode), data, 0o644); err != nil {
		return fmt.Errorf("mapping: write mapping config: %w", err)
	}
	return nil
}
