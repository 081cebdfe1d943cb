package models

// Asset is a single piece of hardware or software tracked by a component.
type Asset struct {
	*Resource
}

// NewAsset wraps a decoded resource.
func NewAsset(r *Resource) (*Asset, error) {
	if err := check(r, AssetKind); err != nil {
		return nil, err
	}
	return &Asset{Resource: r}, nil
}

func (a *Asset) Name() string { return a.str(FieldName) }
func (a *Asset) SupportType() string { return a.str(FieldSupportType) }
func (a *Asset) SupportTypeInherited() bool { return a.flag(FieldSupportTypeInherited) }
func (a *Asset) Info() string { return a.str(FieldInfo) }
func (a *Asset) Decommissioned() bool { return a.flag(FieldDecommissioned) }
func (a *Asset) CreatedAt() string { return a.str(FieldCreatedAt) }
func (a *Asset) UpdatedAt() string { return a.str(FieldUpdatedAt) }
func (a *Asset) Position() *PositionRange { return a.position() }

// Group returns the owning group, or nil when the asset is ungrouped.
func (a *Asset) Group() (*AssetGroup, error) {
	r, err := a.Related(RelAssetGroup)
	if err != nil || r == nil {
		return nil, err
	}
	return NewAssetGroup(r)
}

// Container returns the containing container, or nil.
func (a *Asset) Container() (*Container, error) {
	r, err := a.Related(RelParentContainer)
	if err != nil || r == nil {
		return nil, err
	}
	return NewContainer(r)
}

// Component returns the owning component.
func (a *Asset) Component() (*Component, error) {
	r, err := a.Related(RelComponent)
	if err != nil || r == nil {
		return nil, err
	}
	return NewComponent(r)
}
