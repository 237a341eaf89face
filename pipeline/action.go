// Package pipeline runs declarative model test specifications: ordered
// actions resolved against a shared data section, dispatched to CLI or
// NETCONF execution and verified through the rpcverify and cliverify
// engines.
package pipeline

import (
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Kind identifies the handler an action dispatches to.
type Kind int

const (
	// Empty is the fallback for unknown action names.
	Empty Kind = iota
	Cli
	Yang
	Sleep
	Repeat
	Timestamp
)

func (k Kind) String() string {
	switch k {
	case Cli:
		return "cli"
	case Yang:
		return "yang"
	case Sleep:
		return "sleep"
	case Repeat:
		return "repeat"
	case Timestamp:
		return "timestamp"
	default:
		return "empty"
	}
}

// KindOf maps an action name to its Kind. Unknown names map to Empty.
func KindOf(name string) Kind {
	switch name {
	case "cli":
		return Cli
	case "yang":
		return Yang
	case "sleep":
		return Sleep
	case "repeat":
		return Repeat
	case "timestamp":
		return Timestamp
	default:
		return Empty
	}
}

// Action is one step of a test specification. Content and Returns are
// indexes into the specification's data section.
type Action struct {
	Name      string `yaml:"action"`
	Device    string `yaml:"device"`
	Protocol  string `yaml:"protocol"`
	Operation string `yaml:"operation"`
	Datastore string `yaml:"datastore"`
	Banner    string `yaml:"banner"`
	Log       string `yaml:"log"`
	Content   string `yaml:"content"`
	Returns   string `yaml:"returns"`
	// Sleep is a pause in seconds for sleep actions.
	Sleep int `yaml:"sleep"`
}

// Spec is a model pipeline test specification document.
type Spec struct {
	Actions []Action       `yaml:"test_actions"`
	Data    map[string]any `yaml:"data"`
}

// LoadSpec parses a YAML test specification.
func LoadSpec(doc []byte) (*Spec, error) {
	spec := &Spec{}
	if err := yaml.Unmarshal(doc, spec); err != nil {
		return nil, errors.Wrap(err, "parse test specification")
	}
	return spec, nil
}
