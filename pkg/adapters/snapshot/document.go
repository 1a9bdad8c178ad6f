package snapshot

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// document is the on-disk shape of a snapshot: a forest of application
// trees plus the pid of the frontmost one.
type document struct {
	Applications []map[string]any `yaml:"applications"`
	Focused      int32            `yaml:"focused"`
}

// appSpec and nodeSpec are the decoded snapshot records. YAML is parsed
// into generic maps first and then decoded with mapstructure so the node
// grammar stays loose: unknown keys are ignored and durations can be
// written as "150ms".
type appSpec struct {
	Name string   `mapstructure:"name"`
	PID  int32    `mapstructure:"pid"`
	Root nodeSpec `mapstructure:"root"`
}

type nodeSpec struct {
	Role        string         `mapstructure:"role"`
	SubRole     string         `mapstructure:"subrole"`
	Description string         `mapstructure:"description"`
	Title       string         `mapstructure:"title"`
	Actions     []string       `mapstructure:"actions"`
	Attributes  map[string]any `mapstructure:"attributes"`
	Children    []nodeSpec     `mapstructure:"children"`

	// HasChildren overrides the derived flag, simulating a provider that
	// claims children it cannot deliver.
	HasChildren *bool `mapstructure:"has_children"`

	// Delay is applied to every operation on this node; Fail lists
	// operation names that error out. Both exist to rehearse the
	// resilience behavior against a misbehaving provider.
	Delay time.Duration `mapstructure:"delay"`
	Fail  []string      `mapstructure:"fail"`
}

func parseDocument(data []byte) ([]appSpec, int32, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, 0, fmt.Errorf("parsing snapshot yaml: %w", err)
	}
	if len(doc.Applications) == 0 {
		return nil, 0, fmt.Errorf("snapshot has no applications")
	}

	apps := make([]appSpec, 0, len(doc.Applications))
	for i, raw := range doc.Applications {
		var app appSpec
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:     &app,
			DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		})
		if err != nil {
			return nil, 0, err
		}
		if err := dec.Decode(raw); err != nil {
			return nil, 0, fmt.Errorf("decoding application %d: %w", i, err)
		}
		if app.Root.Role == "" {
			return nil, 0, fmt.Errorf("application %q: root element needs a role", app.Name)
		}
		apps = append(apps, app)
	}
	return apps, doc.Focused, nil
}
