package compose

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// NewDocument returns an empty compose document with the default network.
func NewDocument() *Document {
	return &Document{
		Services: make(map[string]*Service),
		Networks: map[string]*Network{
			DefaultNetwork: {Driver: "bridge"},
		},
	}
}

// AddService adds a named service fragment to the document. A duplicate
// service name is a hard error: two templates must not claim one name.
func (d *Document) AddService(name string, svc *Service) error {
	if _, exists := d.Services[name]; exists {
		return fmt.Errorf("duplicate service name %q", name)
	}
	d.Services[name] = svc
	return nil
}

// Validate checks that every depends_on target exists in the document.
func (d *Document) Validate() error {
	for name, svc := range d.Services {
		for dep := range svc.DependsOn {
			if _, ok := d.Services[dep]; !ok {
				return fmt.Errorf("service %q depends on unknown service %q", name, dep)
			}
		}
	}
	return nil
}

// Marshal renders the document as YAML. Output is deterministic: struct
// fields marshal in declaration order and map keys sort lexically.
func (d *Document) Marshal() ([]byte, error) {
	out, err := yaml.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("marshaling compose document: %w", err)
	}
	return out, nil
}
