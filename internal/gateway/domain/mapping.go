package domain

import "time"

// CompanyMapping re-homes a user into another tenant for one external
// system. Mappings are soft deleted.
type CompanyMapping struct {
	ID             string
	UserID         string
	Username       string
	MappedTenantID TenantID
	SourceTenantID TenantID
	SystemType     string
	Active         bool
	Deleted        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
