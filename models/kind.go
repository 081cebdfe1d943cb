package models

import "net/url"

// Attribute fields shared by several kinds.
const (
	FieldName           Field = "name"
	FieldDecommissioned Field = "decommissioned"
	FieldCreatedAt      Field = "created_at"
	FieldUpdatedAt      Field = "updated_at"

	FieldSupportType          Field = "support_type"
	FieldSupportTypeInherited Field = "support_type_inherited"
	FieldInfo                 Field = "info"

	FieldUnixName Field = "unix_name"

	FieldContainerType Field = "container_type"
	FieldXCapacity     Field = "x_capacity"
	FieldYCapacity     Field = "y_capacity"

	FieldXStart Field = "x_start_position"
	FieldXEnd   Field = "x_end_position"
	FieldYStart Field = "y_start_position"
	FieldYEnd   Field = "y_end_position"
)

// Relationship names.
const (
	RelComponent       Field = "component"
	RelAssetGroup      Field = "asset_group"
	RelCategory        Field = "asset_group_category"
	RelParentContainer Field = "parent_container"
	RelChildContainers Field = "child_containers"
	RelAssets          Field = "assets"
	RelAssetGroups     Field = "asset_groups"
)

// PositionFields are the four fields of a position range, always written
// together.
var PositionFields = []Field{FieldXStart, FieldXEnd, FieldYStart, FieldYEnd}

// Kind describes a resource kind on the wire.
type Kind struct {
	// Name is the human name used in messages ("asset", "group").
	Name string
	// Type is the JSON:API type.
	Type string
	// Path is the collection path; individual resources live at Path/<id>.
	Path string
	// ComponentPath is the collection path below a component, empty when the
	// kind is not scoped to a component.
	ComponentPath string
	// Fields are the dual-schema attribute fields of the kind.
	Fields []Field
	// NameFilter is set when the server supports filter[name].
	NameFilter bool
	// Placeable kinds carry a position range inside a parent container.
	Placeable bool
}

var (
	ComponentKind = Kind{
		Name:   "component",
		Type:   "components",
		Path:   "components",
		Fields: []Field{FieldName},
	}

	AssetKind = Kind{
		Name:          "asset",
		Type:          "assets",
		Path:          "assets",
		ComponentPath: "assets",
		Fields: append([]Field{
			FieldName, FieldSupportType, FieldSupportTypeInherited, FieldInfo,
			FieldDecommissioned, FieldCreatedAt, FieldUpdatedAt,
		}, PositionFields...),
		NameFilter: true,
		Placeable:  true,
	}

	GroupKind = Kind{
		Name:          "group",
		Type:          "assetGroups",
		Path:          "asset-groups",
		ComponentPath: "asset_groups",
		Fields: []Field{
			FieldName, FieldUnixName, FieldDecommissioned, FieldCreatedAt, FieldUpdatedAt,
		},
		NameFilter: true,
	}

	CategoryKind = Kind{
		Name:   "category",
		Type:   "assetGroupCategories",
		Path:   "asset-group-categories",
		Fields: []Field{FieldName},
	}

	ContainerKind = Kind{
		Name:          "container",
		Type:          "assetContainers",
		Path:          "asset-containers",
		ComponentPath: "asset_containers",
		Fields: append([]Field{
			FieldName, FieldContainerType, FieldXCapacity, FieldYCapacity,
		}, PositionFields...),
		Placeable: true,
	}
)

var kindsByType = map[string]Kind{
	ComponentKind.Type: ComponentKind,
	AssetKind.Type:     AssetKind,
	GroupKind.Type:     GroupKind,
	CategoryKind.Type:  CategoryKind,
	ContainerKind.Type: ContainerKind,
}

// KindOf returns the kind registered for a JSON:API type.
func KindOf(typ string) (Kind, bool) {
	k, ok := kindsByType[typ]
	return k, ok
}

// ResourcePath returns the individual path of a resource of this kind.
func (k Kind) ResourcePath(id string) string {
	return k.Path + "/" + url.PathEscape(id)
}
