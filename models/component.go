package models

// Component owns assets, groups and containers. It is referenced by its
// configured id and never listed.
type Component struct {
	*Resource
}

// NewComponent wraps a decoded resource.
func NewComponent(r *Resource) (*Component, error) {
	if err := check(r, ComponentKind); err != nil {
		return nil, err
	}
	return &Component{Resource: r}, nil
}

// ComponentRef references the configured component without fetching it.
func ComponentRef(id string) *Component {
	return &Component{Resource: Ref(ComponentKind.Type, id)}
}

func (c *Component) Name() string { return c.str(FieldName) }
