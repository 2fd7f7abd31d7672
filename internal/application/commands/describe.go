package commands

import (
	"context"

	"firedam/internal/domain"
)

// AttributeInfo describes one filterable attribute
type AttributeInfo struct {
	Name    string   `json:"name" yaml:"name"`
	Type    string   `json:"type" yaml:"type"`
	Values  []string `json:"values,omitempty" yaml:"values,omitempty"`
	Listing bool     `json:"listing,omitempty" yaml:"listing,omitempty"`
}

// FieldInfo describes one output field
type FieldInfo struct {
	Name     string `json:"name" yaml:"name"`
	Type     string `json:"type" yaml:"type"`
	Required bool   `json:"required,omitempty" yaml:"required,omitempty"`
}

// ResourceInfo is the public view of a resource descriptor
type ResourceInfo struct {
	Name        string          `json:"name" yaml:"name"`
	Kind        string          `json:"kind" yaml:"kind"`
	Description string          `json:"description" yaml:"description"`
	Attributes  []AttributeInfo `json:"attributes" yaml:"attributes"`
	Fields      []FieldInfo     `json:"fields" yaml:"fields"`
}

// DescribeCommand lists the resources the registry knows
type DescribeCommand struct {
	registry *domain.Registry
	Resource string
}

// NewDescribeCommand creates a new DescribeCommand. An empty resource
// describes all of them.
func NewDescribeCommand(registry *domain.Registry, resource string) *DescribeCommand {
	return &DescribeCommand{
		registry: registry,
		Resource: resource,
	}
}

// Execute runs the describe command
func (c *DescribeCommand) Execute(ctx context.Context) ([]ResourceInfo, error) {
	if c.Resource != "" {
		desc, err := c.registry.Describe(c.Resource)
		if err != nil {
			return nil, err
		}
		return []ResourceInfo{NewResourceInfo(desc)}, nil
	}

	descs := c.registry.Resources()
	infos := make([]ResourceInfo, 0, len(descs))
	for _, desc := range descs {
		infos = append(infos, NewResourceInfo(desc))
	}
	return infos, nil
}

// NewResourceInfo converts a descriptor to its public view. Remote field
// and target names stay private.
func NewResourceInfo(desc domain.ResourceDescriptor) ResourceInfo {
	info := ResourceInfo{
		Name:        desc.Name(),
		Kind:        desc.Kind().String(),
		Description: desc.Description(),
	}
	for _, a := range desc.Attributes() {
		info.Attributes = append(info.Attributes, AttributeInfo{
			Name:    a.Name,
			Type:    a.Type.String(),
			Values:  a.Values,
			Listing: a.Listing,
		})
	}
	for _, f := range desc.OutputFields() {
		info.Fields = append(info.Fields, FieldInfo{
			Name:     f.Name,
			Type:     f.Type.String(),
			Required: f.Required,
		})
	}
	return info
}
