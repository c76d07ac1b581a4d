package model

// Category is a user-defined label for transactions.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"` // "#RRGGBB"
	Icon  string `json:"icon"`  // short text or emoji
}

// NewCategory is a category payload before an ID is assigned.
type NewCategory struct {
	Name  string
	Color string
	Icon  string
}

// WithID builds the stored record.
func (n NewCategory) WithID(id string) Category {
	return Category{ID: id, Name: n.Name, Color: n.Color, Icon: n.Icon}
}

// CategoryPatch is a partial update. Nil fields are left unchanged.
type CategoryPatch struct {
	Name  *string
	Color *string
	Icon  *string
}

// Apply merges the patch onto c. The ID is never changed.
func (p CategoryPatch) Apply(c Category) Category {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	return c
}

// Empty reports whether the patch changes nothing.
func (p CategoryPatch) Empty() bool {
	return p == CategoryPatch{}
}
