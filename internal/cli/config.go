package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the config file looked for when --config is
// not given.
const DefaultConfigName = "modelforge.yaml"

// Config is the CLI's configuration file.
type Config struct {
	// WorkDir is the writable working directory holding user source
	// fragments, generated output, and the artifact database.
	WorkDir string `yaml:"workDir"`

	// SchemaDir holds the CUE schema files.
	SchemaDir string `yaml:"schemaDir"`

	// SourceExt is the fragment file extension to scan for.
	SourceExt string `yaml:"sourceExt"`

	// StorePath is the artifact database path. Defaults to
	// models.generated.db inside WorkDir.
	StorePath string `yaml:"storePath"`
}

// LoadConfig reads the config file at path. A missing file when path
// is the default name yields defaults; a missing file at an explicit
// path is an error.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{
		WorkDir:   "models",
		SchemaDir: "schema",
		SourceExt: ".go",
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if path != DefaultConfigName {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		cfg.applyDefaults()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.WorkDir == "" {
		c.WorkDir = "models"
	}
	if c.SchemaDir == "" {
		c.SchemaDir = "schema"
	}
	if c.StorePath == "" {
		// The .generated. marker keeps the database out of fragment
		// scans even though the extension filter already skips it.
		c.StorePath = filepath.Join(c.WorkDir, "models.generated.db")
	}
}
