package dieselcompute

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Usage describes how a benchmark loop exercises the device: how many
// iterations to discard as warmup, how many to measure, the buffer size the
// workload touches and the workgroup grid a dispatch covers. Corresponds to
// YAML object notation so usage layouts can be kept per benchmark alongside
// the shader sources.
type Usage struct {
	Name       string    `yaml:"name"`
	Warmup     int       `yaml:"warmup"`
	Iterations int       `yaml:"iterations"`
	BufferSize int       `yaml:"buffer_size"`
	Workgroups [3]uint32 `yaml:"workgroups"`
}

// NewUsage returns a usage pattern with the default loop shape.
func NewUsage(name string) *Usage {
	return &Usage{
		Name:       name,
		Warmup:     2,
		Iterations: 16,
		BufferSize: 1 << 20,
		Workgroups: [3]uint32{1, 1, 1},
	}
}

// LoadUsage parses a usage layout from a YAML file. Omitted loop fields fall
// back to the defaults of NewUsage.
func LoadUsage(path string) (*Usage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("usage %s: %w", path, err)
	}

	use := NewUsage("")
	if err := yaml.Unmarshal(data, use); err != nil {
		return nil, fmt.Errorf("usage %s: %w", path, err)
	}
	if err := use.Validate(); err != nil {
		return nil, fmt.Errorf("usage %s: %w", path, err)
	}
	return use, nil
}

// Validate rejects loop shapes the bench loop cannot run.
func (u *Usage) Validate() error {
	if u.Warmup < 0 {
		return fmt.Errorf("warmup %d is negative", u.Warmup)
	}
	if u.Iterations < 1 {
		return fmt.Errorf("iterations %d, need at least one measured iteration", u.Iterations)
	}
	if u.BufferSize < 0 {
		return fmt.Errorf("buffer_size %d is negative", u.BufferSize)
	}
	return nil
}
