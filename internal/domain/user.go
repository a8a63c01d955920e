package domain

import "time"

// User represents a system user. Each user owns exactly one wallet,
// provisioned at registration.
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Permissions    []Permission
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Permission is a typed capability granted to a caller. The core never
// parses free-form text to authorize an operation.
type Permission string

const (
	// PermissionDeposit allows initiating deposits.
	PermissionDeposit Permission = "deposit"

	// PermissionTransfer allows moving funds to another wallet.
	PermissionTransfer Permission = "transfer"

	// PermissionRead allows balance and history queries.
	PermissionRead Permission = "read"
)

var validPermissions = map[Permission]bool{
	PermissionDeposit:  true,
	PermissionTransfer: true,
	PermissionRead:     true,
}

// IsValid checks if the permission is a known capability.
func (p Permission) IsValid() bool {
	return validPermissions[p]
}

// HasPermission reports whether the user holds the given capability.
func (u *User) HasPermission(p Permission) bool {
	for _, held := range u.Permissions {
		if held == p {
			return true
		}
	}

	return false
}

// AllPermissions returns the full capability set granted to freshly
// registered users.
func AllPermissions() []Permission {
	return []Permission{PermissionDeposit, PermissionTransfer, PermissionRead}
}
