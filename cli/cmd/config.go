package cmd

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the CLI driver's own settings sidecar, the same idiom as
// the teacher's sqlcode.yaml: a struct of yaml-tagged fields loaded
// with yaml.Unmarshal. The compiler core has no notion of it.
type Config struct {
	Annotate         bool `yaml:"annotate"`
	WarningsAsErrors bool `yaml:"warningsAsErrors"`
	DumpAST          bool `yaml:"dumpAST"`
}

// LoadConfig reads .cmmrc.yaml, preferring the --config path if given,
// otherwise a file of that name next to inputFile. Absence of the file
// is not an error: the CLI falls back to flag defaults.
func LoadConfig(inputFile string) (Config, error) {
	var cfg Config

	path := configPath
	if path == "" {
		path = filepath.Join(filepath.Dir(inputFile), ".cmmrc.yaml")
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
