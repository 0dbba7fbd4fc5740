package assetid

// AssetType identifies the category of a trackable asset in the host's
// data graph.
type AssetType string

const (
	// AssetTypeObject identifies a scene object.
	AssetTypeObject AssetType = "object"

	// AssetTypeCollection identifies a grouping of objects.
	AssetTypeCollection AssetType = "collection"

	// AssetTypeMaterial identifies a surface material.
	AssetTypeMaterial AssetType = "material"

	// AssetTypeMesh identifies mesh geometry data.
	AssetTypeMesh AssetType = "mesh"

	// AssetTypeImage identifies an image or texture datablock.
	AssetTypeImage AssetType = "image"

	// AssetTypeNodeGroup identifies a reusable node group.
	AssetTypeNodeGroup AssetType = "node_group"

	// AssetTypeAction identifies an animation action.
	AssetTypeAction AssetType = "action"

	// AssetTypeWorld identifies a world/environment datablock.
	AssetTypeWorld AssetType = "world"
)

// ValidAssetTypes returns all recognized asset types.
func ValidAssetTypes() []AssetType {
	return []AssetType{
		AssetTypeObject,
		AssetTypeCollection,
		AssetTypeMaterial,
		AssetTypeMesh,
		AssetTypeImage,
		AssetTypeNodeGroup,
		AssetTypeAction,
		AssetTypeWorld,
	}
}

// IsValid returns true if this is a recognized asset type.
func (t AssetType) IsValid() bool {
	switch t {
	case AssetTypeObject, AssetTypeCollection, AssetTypeMaterial,
		AssetTypeMesh, AssetTypeImage, AssetTypeNodeGroup,
		AssetTypeAction, AssetTypeWorld:
		return true
	default:
		return false
	}
}

// String returns the string representation of the asset type.
func (t AssetType) String() string {
	return string(t)
}

// Asset is one trackable item exposed from a library.
//
// Name is the current display name and mutable over time; UUID is assigned
// once when the item was first marked trackable and is stable across
// renames. The UUID is a free-form string rather than an assetid.UUID
// because legacy hosts minted content-hash identities that are not RFC 4122
// UUIDs.
type Asset struct {
	Name string    `json:"name" yaml:"name" mapstructure:"name"`
	Type AssetType `json:"type" yaml:"type" mapstructure:"type"`
	UUID string    `json:"uuid" yaml:"uuid" mapstructure:"uuid"`
}

// Tracked returns true when the asset already carries an assigned UUID.
// Items without one are not yet tracked and are excluded from catalogs.
func (a Asset) Tracked() bool {
	return a.UUID != ""
}
