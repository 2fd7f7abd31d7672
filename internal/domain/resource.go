package domain

// ResourceKind tells the executor which remote call serves a resource
type ResourceKind int

const (
	KindCollection ResourceKind = iota // document collection, one query call
	KindBucket                         // object bucket, one listing call
)

func (k ResourceKind) String() string {
	switch k {
	case KindCollection:
		return "collection"
	case KindBucket:
		return "bucket"
	default:
		return "unknown"
	}
}

// AttributeType is the declared type of a filterable attribute
type AttributeType int

const (
	TypeString AttributeType = iota
	TypeNumber
	TypeDate
	TypeEnum
	TypeArray
)

func (t AttributeType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeNumber:
		return "number"
	case TypeDate:
		return "date"
	case TypeEnum:
		return "enum"
	case TypeArray:
		return "array"
	default:
		return "unknown"
	}
}

// Comparable reports whether range bounds make sense for the type
func (t AttributeType) Comparable() bool {
	return t == TypeNumber || t == TypeDate
}

// Attribute is one filterable attribute of a resource
type Attribute struct {
	Name    string        // filter key, e.g. "uploadedAt"
	Field   string        // remote field name, e.g. "timeCreated"
	Type    AttributeType
	Values  []string      // allowed values for TypeEnum
	Listing bool          // passed to the listing call instead of filtered
}

func (a Attribute) allows(value string) bool {
	for _, v := range a.Values {
		if v == value {
			return true
		}
	}
	return false
}

// OutputField is one field of the documented result schema
type OutputField struct {
	Name     string
	Field    string
	Type     AttributeType
	Required bool
}

// ResourceDescriptor describes one queryable resource. Values are immutable:
// accessors hand out copies.
type ResourceDescriptor struct {
	name        string
	kind        ResourceKind
	target      string
	description string
	attributes  []Attribute
	output      []OutputField
}

// Name returns the resource name used by tools, e.g. "assets"
func (d ResourceDescriptor) Name() string { return d.name }

// Kind returns whether the resource is a collection or a bucket
func (d ResourceDescriptor) Kind() ResourceKind { return d.kind }

// Target returns the remote collection or bucket name
func (d ResourceDescriptor) Target() string { return d.target }

// Description returns a one-line human description
func (d ResourceDescriptor) Description() string { return d.description }

// Attribute looks up a filterable attribute by name
func (d ResourceDescriptor) Attribute(name string) (Attribute, bool) {
	for _, a := range d.attributes {
		if a.Name == name {
			return copyAttribute(a), true
		}
	}
	return Attribute{}, false
}

// Attributes returns the filterable attributes in declaration order
func (d ResourceDescriptor) Attributes() []Attribute {
	out := make([]Attribute, len(d.attributes))
	for i, a := range d.attributes {
		out[i] = copyAttribute(a)
	}
	return out
}

// OutputFields returns the documented result schema in declaration order
func (d ResourceDescriptor) OutputFields() []OutputField {
	out := make([]OutputField, len(d.output))
	copy(out, d.output)
	return out
}

// IsZero reports whether d is the zero descriptor
func (d ResourceDescriptor) IsZero() bool { return d.name == "" }

func copyAttribute(a Attribute) Attribute {
	if a.Values != nil {
		a.Values = append([]string(nil), a.Values...)
	}
	return a
}
