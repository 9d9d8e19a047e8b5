package signature

import (
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed signatures.yaml
var signaturesYAML []byte

// ErrUnknownTask is returned when a task name is not declared.
var ErrUnknownTask = errors.New("unknown task")

// Registry holds immutable task signatures keyed by name.
type Registry struct {
	specs map[string]TaskSpec
}

// Parse decodes a YAML list of signatures and validates each of them.
func Parse(data []byte) (*Registry, error) {
	var specs []TaskSpec
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("decode signatures: %w", err)
	}
	r := &Registry{specs: make(map[string]TaskSpec, len(specs))}
	for _, spec := range specs {
		if err := spec.validate(); err != nil {
			return nil, err
		}
		if _, ok := r.specs[spec.Name]; ok {
			return nil, fmt.Errorf("duplicate signature %q", spec.Name)
		}
		r.specs[spec.Name] = spec
	}
	return r, nil
}

// Lookup returns a copy of the named signature.
func (r *Registry) Lookup(name string) (TaskSpec, error) {
	spec, ok := r.specs[name]
	if !ok {
		return TaskSpec{}, fmt.Errorf("%w %q", ErrUnknownTask, name)
	}
	return spec.clone(), nil
}

// Names returns the declared task names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.specs))
	for name := range r.specs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var builtin = sync.OnceValues(func() (*Registry, error) {
	return Parse(signaturesYAML)
})

// Builtin returns the registry of signatures embedded in the binary.
func Builtin() (*Registry, error) {
	return builtin()
}

// Lookup returns a built-in signature by name.
func Lookup(name string) (TaskSpec, error) {
	r, err := Builtin()
	if err != nil {
		return TaskSpec{}, err
	}
	return r.Lookup(name)
}

// MustLookup is like Lookup but panics on error. Task names are hard-coded by
// callers, so a failure here is a programming error caught at startup.
func MustLookup(name string) TaskSpec {
	spec, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return spec
}
