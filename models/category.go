package models

// Category groups asset groups.
type Category struct {
	*Resource
}

// NewCategory wraps a decoded resource.
func NewCategory(r *Resource) (*Category, error) {
	if err := check(r, CategoryKind); err != nil {
		return nil, err
	}
	return &Category{Resource: r}, nil
}

func (c *Category) Name() string { return c.str(FieldName) }
