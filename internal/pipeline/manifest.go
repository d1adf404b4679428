package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/KaramelBytes/actigraph-cli/internal/utils"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// ManifestName is the file written into the output subdirectory after a
// saving Process call.
const ManifestName = "manifest.yaml"

// Manifest records one saving run.
type Manifest struct {
	RunID     string    `yaml:"run_id"`
	CreatedAt time.Time `yaml:"created_at"`
	InputDir  string    `yaml:"input_dir"`
	Inputs    []string  `yaml:"inputs"`
	Outputs   []string  `yaml:"outputs"`
}

func (p *Pipeline) writeManifest(inputs, outputs []string) error {
	m := Manifest{
		RunID:     uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		InputDir:  p.InputDir,
	}
	for _, f := range inputs {
		m.Inputs = append(m.Inputs, filepath.Base(f))
	}
	for _, f := range outputs {
		m.Outputs = append(m.Outputs, filepath.Base(f))
	}
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	return utils.SafeWriteFile(filepath.Join(p.SubdirPath, ManifestName), b)
}

// LoadManifest reads the manifest from an output subdirectory.
func LoadManifest(dir string) (*Manifest, error) {
	b, err := os.ReadFile(filepath.Join(dir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}
