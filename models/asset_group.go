package models

// AssetGroup groups assets. UnixName is the optional short alias used as the
// genders name of the group.
type AssetGroup struct {
	*Resource
}

// NewAssetGroup wraps a decoded resource.
func NewAssetGroup(r *Resource) (*AssetGroup, error) {
	if err := check(r, GroupKind); err != nil {
		return nil, err
	}
	return &AssetGroup{Resource: r}, nil
}

func (g *AssetGroup) Name() string { return g.str(FieldName) }
func (g *AssetGroup) UnixName() string { return g.str(FieldUnixName) }
func (g *AssetGroup) Decommissioned() bool { return g.flag(FieldDecommissioned) }

// Category returns the owning category, or nil.
func (g *AssetGroup) Category() (*Category, error) {
	r, err := g.Related(RelCategory)
	if err != nil || r == nil {
		return nil, err
	}
	return NewCategory(r)
}
