package users

// RoleType represents a user role within the application
type RoleType string

const (
	RoleAdmin    RoleType = "admin"    // Can manage suppliers, clients and catalogue data
	RoleSupplier RoleType = "supplier" // Can manage their own products and orders
	RoleClient   RoleType = "client"   // Can browse the catalogue and place orders
)

// Profile is the user record returned by the auth endpoints and cached
// alongside the credential pair. Passwords never appear here.
type Profile struct {
	ID            string   `json:"id,omitempty"`             // Unique identifier for the user
	Email         string   `json:"email,omitempty"`          // User's email address
	FirstName     string   `json:"first_name,omitempty"`     // First name of the user
	LastName      string   `json:"last_name,omitempty"`      // Last name of the user
	Role          RoleType `json:"role,omitempty"`           // Single application role
	EmailVerified bool     `json:"email_verified,omitempty"` // Whether the email address has been verified
}

// FullName returns the display name for the profile.
func (p *Profile) FullName() string {
	if p == nil {
		return ""
	}
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// HasRole reports whether the profile holds the given role. A nil profile
// holds no roles.
func (p *Profile) HasRole(role RoleType) bool {
	return p != nil && p.Role == role
}

// HasAnyRole reports whether the profile holds at least one of the given
// roles. A nil profile holds no roles.
func (p *Profile) HasAnyRole(roles ...RoleType) bool {
	if p == nil {
		return false
	}
	for _, role := range roles {
		if p.Role == role {
			return true
		}
	}
	return false
}
