package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/webvalidator/webvalidator/pkg/model"
)

// Load reads, extends, merges, and compiles the configuration file at
// path into an effective Config. SPEC_FULL.md §4.1, "File-level
// extension".
func Load(path string) (*Config, error) {
	raw, err := loadChain(path, nil)
	if err != nil {
		return nil, err
	}
	return Compile(raw)
}

// LoadBytes compiles a single in-memory document with no `extend`
// chain to resolve — used by tests and by callers that already have
// the configuration text.
func LoadBytes(data []byte) (*Config, error) {
	raw, err := decode(data)
	if err != nil {
		return nil, err
	}
	return Compile(raw)
}

func loadChain(path string, stack []string) (*Raw, error) {
	canonical, err := filepath.Abs(path)
	if err != nil {
		return nil, model.NewError(model.ErrIO, fmt.Sprintf("resolve path %q", path), err)
	}
	for _, seen := range stack {
		if seen == canonical {
			return nil, CircularConfigFiles(append(append([]string{}, stack...), canonical))
		}
	}
	stack = append(stack, canonical)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, model.NewError(model.ErrIO, fmt.Sprintf("read config file %q", path), err)
	}

	raw, err := decode(data)
	if err != nil {
		return nil, err
	}

	if raw.Extend == "" {
		return raw, nil
	}

	parentPath := raw.Extend
	if !filepath.IsAbs(parentPath) {
		parentPath = filepath.Join(filepath.Dir(path), parentPath)
	}
	parent, err := loadChain(parentPath, stack)
	if err != nil {
		return nil, err
	}

	merged := mergeRaw(parent, raw)
	merged.Extend = ""
	return merged, nil
}

func decode(data []byte) (*Raw, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var raw Raw
	if err := dec.Decode(&raw); err != nil {
		return nil, model.NewError(model.ErrConfig, "parse configuration", err)
	}
	return &raw, nil
}
