package yamlconfig

import (
	"fmt"
	"os"

	"bytemomo/harpoon/internal/domain"

	"gopkg.in/yaml.v3"
)

// LoadConfig reads a YAML config and fills unset fields from the defaults.
// An empty path yields the defaults.
func LoadConfig(path string) (domain.Config, error) {
	defaults := domain.DefaultConfig()
	if path == "" {
		return defaults, nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}
	var c domain.Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return domain.Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return c.Merge(defaults), nil
}
