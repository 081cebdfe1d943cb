package models

// Container is a 2-D space (a rack, a chassis) holding assets and other
// containers. X and Y capacity size its grid; Position places it inside its
// parent.
type Container struct {
	*Resource
}

// NewContainer wraps a decoded resource.
func NewContainer(r *Resource) (*Container, error) {
	if err := check(r, ContainerKind); err != nil {
		return nil, err
	}
	return &Container{Resource: r}, nil
}

func (c *Container) Name() string { return c.str(FieldName) }
func (c *Container) ContainerType() string { return c.str(FieldContainerType) }
func (c *Container) Position() *PositionRange { return c.position() }

func (c *Container) Capacity() Capacity {
	return Capacity{X: c.integer(FieldXCapacity), Y: c.integer(FieldYCapacity)}
}

// Parent returns the parent container, or nil for a top level container.
func (c *Container) Parent() (*Container, error) {
	r, err := c.Related(RelParentContainer)
	if err != nil || r == nil {
		return nil, err
	}
	return NewContainer(r)
}
