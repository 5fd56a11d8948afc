package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ManifestFile is written next to the CSV artifacts after each run.
const ManifestFile = "manifest.yaml"

// Manifest records the provenance of one generation run.
type Manifest struct {
	RunID       string         `yaml:"run_id"`
	Seed        uint64         `yaml:"seed"`
	Accounts    int            `yaml:"accounts"`
	Months      int            `yaml:"months"`
	GeneratedAt time.Time      `yaml:"generated_at"`
	Rows        map[string]int `yaml:"rows"`
}

// NewManifest creates a manifest with a fresh run ID.
func NewManifest(seed uint64, accounts, months int, rows map[string]int) *Manifest {
	return &Manifest{
		RunID:       uuid.New().String(),
		Seed:        seed,
		Accounts:    accounts,
		Months:      months,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	}
}

// WriteManifest writes the manifest into dir.
func WriteManifest(dir string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	path := filepath.Join(dir, ManifestFile)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// ReadManifest reads the manifest from dir.
func ReadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &m, nil
}
