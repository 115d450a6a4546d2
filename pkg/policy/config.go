package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the build-time memory-protection configuration.
type Config struct {
	// GlobalToggle gates the whole protection mechanism, including the
	// self-disarming fault guard. Read once at initialization.
	GlobalToggle bool `yaml:"global_toggle"`

	// Protections lists the individual protection features.
	Protections Protections `yaml:"protections"`
}

// Protections holds the per-feature toggles.
type Protections struct {
	// NullDetection traps accesses to the null page.
	NullDetection bool `yaml:"null_detection"`

	// NXStack marks stack pages non-executable.
	NXStack bool `yaml:"nx_stack"`

	// StackGuard places guard pages below each stack.
	StackGuard bool `yaml:"stack_guard"`

	// HeapGuard places guard pages around heap allocations.
	HeapGuard bool `yaml:"heap_guard"`
}

// DefaultConfig returns the configuration used when no policy file is
// provided: everything on.
func DefaultConfig() Config {
	return Config{
		GlobalToggle: true,
		Protections: Protections{
			NullDetection: true,
			NXStack:       true,
			StackGuard:    true,
			HeapGuard:     true,
		},
	}
}

// Load reads a policy configuration from a YAML file.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read policy config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse policy config: %w", err)
	}
	return cfg, nil
}
