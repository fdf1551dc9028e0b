package domain

// ListItem is the polymorphic interface for records shown in lists.
// House, Spell, Elixir, Ingredient and Wizard implement it directly.
type ListItem interface {
	// GetID returns the API identifier
	GetID() string

	// GetTitle returns the display title
	GetTitle() string

	// GetKind returns which collection the item belongs to
	GetKind() Kind

	// GetDescription returns secondary info for display (e.g. "Charm" for a spell)
	GetDescription() string
}

// Navigator moves the UI to a route path.
// The auth store uses it to send the user back to the login screen.
type Navigator interface {
	Push(path string)
}
