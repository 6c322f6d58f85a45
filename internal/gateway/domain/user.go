package domain

import "time"

type User struct {
	ID           string
	Username     string
	PasswordHash string // argon2id PHC or bcrypt
	DisplayName  string
	Email        string
	Role         Role
	TenantID     TenantID // partition the user belongs to
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity projects the stored record onto the caller identity.
func (u User) Identity() Identity {
	return Identity{
		ID:          u.ID,
		Username:    u.Username,
		TenantID:    u.TenantID,
		DisplayName: u.DisplayName,
		Role:        u.Role,
	}
}
