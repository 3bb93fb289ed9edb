package beanlog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed options.yaml
var defaultOptions []byte

// Options are the fixed choice lists offered by the bean log form.
type Options struct {
	Countries   []string `json:"countries"    yaml:"countries"`
	RoastLevels []string `json:"roast_levels" yaml:"roast_levels"`
	Generations []string `json:"generations"  yaml:"generations"`
}

// LoadOptions parses the option lists compiled into the binary.
func LoadOptions() (Options, error) {
	return parseOptions(defaultOptions)
}

// LoadOptionsFile parses option lists from a YAML file on disk. An empty
// path falls back to the built-in lists.
func LoadOptionsFile(path string) (Options, error) {
	if path == "" {
		return LoadOptions()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("read options: %w", err)
	}
	return parseOptions(b)
}

func parseOptions(b []byte) (Options, error) {
	var o Options
	if err := yaml.Unmarshal(b, &o); err != nil {
		return Options{}, fmt.Errorf("parse options: %w", err)
	}
	if len(o.Countries) == 0 || len(o.RoastLevels) == 0 {
		return Options{}, errors.New("options: countries and roast_levels must not be empty")
	}
	return o, nil
}
