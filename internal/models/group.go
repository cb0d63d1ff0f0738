package models

// Group represents a named collection of members sharing expenses and
// payments. Every group carries a default currency; balances are always
// reported in it.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Da Nang Trip").
	Name string

	// DefaultCurrency is the ISO 4217 code balances are computed in (e.g., "VND").
	DefaultCurrency string

	// Members are the user IDs belonging to this group.
	Members []string

	// CreatedBy is the user ID that created the group.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	for _, m := range g.Members {
		if m == userID {
			return true
		}
	}
	return false
}
