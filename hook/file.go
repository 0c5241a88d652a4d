package hook

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Set is a named collection of hooks, typically describing one application.
type Set map[string]Hook

// Get returns the named hook.
func (s Set) Get(name string) (Hook, error) {
	h, ok := s[name]
	if !ok {
		return Hook{}, fmt.Errorf("no hook named %q", name)
	}
	return h, nil
}

// Names returns the hook names in sorted order.
func (s Set) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Load reads a hooks file. The format is chosen by extension: ".toml",
// ".yaml" or ".yml". Each top-level key names a hook with a strategy and a
// value:
//
//	[login]
//	strategy = "id"
//	value = "user_name"
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var unmarshal func([]byte, interface{}) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		unmarshal = toml.Unmarshal
	case ".yaml", ".yml":
		unmarshal = yaml.Unmarshal
	default:
		return nil, fmt.Errorf("hooks file %q: unsupported extension %q", path, ext)
	}

	raw := map[string]struct {
		Strategy string `toml:"strategy" yaml:"strategy"`
		Value    string `toml:"value" yaml:"value"`
	}{}
	if err := unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("hooks file %q: %w", path, err)
	}

	set := make(Set, len(raw))
	for name, r := range raw {
		st, err := ParseStrategy(r.Strategy)
		if err != nil {
			return nil, fmt.Errorf("hooks file %q, hook %q: %w", path, name, err)
		}
		h, err := New(st, r.Value)
		if err != nil {
			return nil, fmt.Errorf("hooks file %q, hook %q: %w", path, name, err)
		}
		set[name] = h
	}
	return set, nil
}
