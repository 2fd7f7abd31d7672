package domain

// Remote names. These never come from a request.
const (
	ResourceAssets     = "assets"
	ResourceVersions   = "versions"
	ResourceComments   = "comments"
	ResourceAssetFiles = "asset_files"

	CollectionAssets   = "assets"
	CollectionVersions = "versions"
	CollectionComments = "comments"
	AssetBucket        = "owndays-dam.firebasestorage.app"
)

// Registry is the fixed set of resource descriptors
type Registry struct {
	resources []ResourceDescriptor
}

// NewRegistry builds the four resource descriptors
func NewRegistry() *Registry {
	return &Registry{
		resources: []ResourceDescriptor{
			assetsDescriptor(),
			versionsDescriptor(),
			commentsDescriptor(),
			assetFilesDescriptor(),
		},
	}
}

// Describe returns the descriptor for a resource name
func (r *Registry) Describe(name string) (ResourceDescriptor, error) {
	for _, d := range r.resources {
		if d.name == name {
			return d, nil
		}
	}
	return ResourceDescriptor{}, &UnknownResourceError{Name: name}
}

// Resources returns all descriptors in registry order
func (r *Registry) Resources() []ResourceDescriptor {
	out := make([]ResourceDescriptor, len(r.resources))
	copy(out, r.resources)
	return out
}

// Names returns the resource names in registry order
func (r *Registry) Names() []string {
	names := make([]string, len(r.resources))
	for i, d := range r.resources {
		names[i] = d.name
	}
	return names
}

func attr(name string, t AttributeType) Attribute {
	return Attribute{Name: name, Field: name, Type: t}
}

func field(name string, t AttributeType) OutputField {
	return OutputField{Name: name, Field: name, Type: t}
}

func required(name string, t AttributeType) OutputField {
	return OutputField{Name: name, Field: name, Type: t, Required: true}
}

func assetsDescriptor() ResourceDescriptor {
	return ResourceDescriptor{
		name:        ResourceAssets,
		kind:        KindCollection,
		target:      CollectionAssets,
		description: "Digital asset metadata",
		attributes: []Attribute{
			attr("category", TypeString),
			attr("tags", TypeArray),
			{Name: "visibility", Field: "visibility", Type: TypeEnum, Values: []string{"public", "private"}},
			attr("uploader", TypeString),
			attr("uploadedAt", TypeDate),
			attr("updatedAt", TypeDate),
		},
		output: []OutputField{
			required("id", TypeString),
			required("title", TypeString),
			field("description", TypeString),
			field("category", TypeString),
			field("tags", TypeArray),
			field("uploader", TypeString),
			field("uploadedAt", TypeDate),
			field("updatedAt", TypeDate),
			field("visibility", TypeEnum),
			field("latestVersionId", TypeString),
		},
	}
}

func versionsDescriptor() ResourceDescriptor {
	return ResourceDescriptor{
		name:        ResourceVersions,
		kind:        KindCollection,
		target:      CollectionVersions,
		description: "Version metadata for assets",
		attributes: []Attribute{
			attr("assetId", TypeString),
			attr("version", TypeString),
			attr("fileType", TypeString),
			attr("fileSize", TypeNumber),
			attr("updatedBy", TypeString),
			attr("updatedAt", TypeDate),
		},
		output: []OutputField{
			required("id", TypeString),
			required("assetId", TypeString),
			field("version", TypeString),
			field("fileUrl", TypeString),
			field("fileName", TypeString),
			field("fileType", TypeString),
			field("fileSize", TypeNumber),
			field("updatedAt", TypeDate),
			field("updatedBy", TypeString),
		},
	}
}

func commentsDescriptor() ResourceDescriptor {
	return ResourceDescriptor{
		name:        ResourceComments,
		kind:        KindCollection,
		target:      CollectionComments,
		description: "User comments on assets",
		attributes: []Attribute{
			attr("assetId", TypeString),
			attr("user", TypeString),
			attr("createdAt", TypeDate),
		},
		output: []OutputField{
			required("id", TypeString),
			required("assetId", TypeString),
			field("user", TypeString),
			field("text", TypeString),
			field("createdAt", TypeDate),
		},
	}
}

func assetFilesDescriptor() ResourceDescriptor {
	return ResourceDescriptor{
		name:        ResourceAssetFiles,
		kind:        KindBucket,
		target:      AssetBucket,
		description: "Files in the asset storage bucket",
		attributes: []Attribute{
			{Name: "prefix", Field: "name", Type: TypeString, Listing: true},
			attr("name", TypeString),
			attr("contentType", TypeString),
			attr("size", TypeNumber),
			{Name: "uploadedAt", Field: "timeCreated", Type: TypeDate},
		},
		output: []OutputField{
			required("name", TypeString),
			field("size", TypeNumber),
			field("contentType", TypeString),
			{Name: "uploadedAt", Field: "timeCreated", Type: TypeDate},
			field("downloadUrl", TypeString),
			field("etag", TypeString),
			field("generation", TypeNumber),
		},
	}
}
