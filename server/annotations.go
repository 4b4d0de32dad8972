package server

// ToolAnnotations provides metadata hints about tool behavior.
// These help clients understand what a tool does without calling it.
type ToolAnnotations struct {
	// Title is a human-readable title for the tool.
	Title string `json:"title,omitempty"`

	// ReadOnlyHint indicates the tool only reads data.
	ReadOnlyHint *bool `json:"readOnlyHint,omitempty"`

	// DestructiveHint indicates the tool might make destructive changes.
	DestructiveHint *bool `json:"destructiveHint,omitempty"`

	// IdempotentHint indicates repeated calls with the same input have the
	// same effect as one call.
	IdempotentHint *bool `json:"idempotentHint,omitempty"`

	// OpenWorldHint indicates the tool reaches systems outside a closed,
	// known set. Router tools talk to one configured router, so they are
	// closed-world.
	OpenWorldHint *bool `json:"openWorldHint,omitempty"`
}

// Bool returns a pointer to a bool value for use in annotations.
func Bool(v bool) *bool {
	return &v
}

func (b *ToolBuilder) annotations() *ToolAnnotations {
	if b.tool.annotations == nil {
		b.tool.annotations = &ToolAnnotations{}
	}
	return b.tool.annotations
}

// ReadOnly marks the tool as read-only and non-destructive.
func (b *ToolBuilder) ReadOnly() *ToolBuilder {
	a := b.annotations()
	a.ReadOnlyHint = Bool(true)
	a.DestructiveHint = Bool(false)
	return b
}

// Idempotent marks the tool as idempotent.
func (b *ToolBuilder) Idempotent() *ToolBuilder {
	b.annotations().IdempotentHint = Bool(true)
	return b
}

// ClosedWorld marks the tool as not accessing external systems.
func (b *ToolBuilder) ClosedWorld() *ToolBuilder {
	b.annotations().OpenWorldHint = Bool(false)
	return b
}

// Title sets a human-readable title for the tool.
func (b *ToolBuilder) Title(title string) *ToolBuilder {
	b.annotations().Title = title
	return b
}
