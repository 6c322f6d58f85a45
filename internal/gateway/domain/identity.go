package domain

// TenantID names an isolated data partition. The zero value is not a
// valid tenant; DefaultTenant is the shared identity store itself.
type TenantID string

// DefaultTenant routes to the default identity store rather than a
// tenant partition.
const DefaultTenant TenantID = "default"

func (t TenantID) String() string { return string(t) }

// IsDefault reports whether t routes to the default store.
func (t TenantID) IsDefault() bool { return t == DefaultTenant }

// Identity is the authenticated caller. The password path and the token
// path both produce this one shape; nothing downstream can tell them apart.
type Identity struct {
	ID          string
	Username    string
	TenantID    TenantID
	DisplayName string
	Role        Role
}

// IsZero reports whether no caller has been established.
func (i Identity) IsZero() bool { return i.ID == "" }

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }
