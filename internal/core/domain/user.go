package domain

import "errors"

// Role is the access level a user holds inside a club.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleMember Role = "member"
)

// DefaultRole is applied to drafts and requests that carry no role.
const DefaultRole = RoleMember

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("duplicate email")
var ErrInvalidRole = errors.New("invalid role")

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleMember:
		return true
	}
	return false
}

// User is the server-owned record. The client keeps a cached copy and treats
// ID, CreatedAt and UpdatedAt as opaque.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	ClerkID   string `json:"clerkId"`
	CreatedAt Timestamp `json:"createdAt"`
	UpdatedAt Timestamp `json:"updatedAt"`
}

// Draft holds the create/edit form values before submission. It doubles as the
// request body for POST and PUT.
type Draft struct {
	Email   string `json:"email"   validate:"required"`
	Role    Role   `json:"role"`
	ClerkID string `json:"clerkId" validate:"required"`
}

// NewDraft returns an empty draft with the default role.
func NewDraft() Draft {
	return Draft{Role: DefaultRole}
}

// DraftFrom populates a draft from an existing user, as when an edit begins.
func DraftFrom(u User) Draft {
	return Draft{Email: u.Email, Role: u.Role, ClerkID: u.ClerkID}
}

// WithDefaults fills an empty role with DefaultRole.
func (d Draft) WithDefaults() Draft {
	if d.Role == "" {
		d.Role = DefaultRole
	}
	return d
}

// TimestampLayout is the wire format the sandbox API uses for createdAt and
// updatedAt. Clients never parse these values.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
