package domain

import "time"

// Role enumerates application-level permissions.
type Role string

const (
	RoleUser       Role = "user"
	RoleTechnician Role = "technician"
	RoleAdmin      Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleTechnician, RoleAdmin:
		return true
	}
	return false
}

// Elevated reports whether the role carries technician-level visibility.
func (r Role) Elevated() bool {
	return r == RoleTechnician || r == RoleAdmin
}

// Profile is the application-level identity record, one-to-one with a
// User (Profile.ID == User.ID). Name, sector and role are mutable.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Sector    string    `json:"sector,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
