package entity

import (
	"time"

	"github.com/google/uuid"
)

// Role names and colors managed by the access reconciler. These two roles are
// the only ones the billing engine ever creates or assigns; all other roles
// belong to the server owners.
const (
	RoleNamePremium = "premium"
	RoleNameFree    = "free"

	RoleColorPremium = "#FFD700" // gold
	RoleColorFree    = "#99AAB5" // gray
)

type Server struct {
	Id        uuid.UUID
	Name      string
	ImageURL  string
	OwnerId   uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Role struct {
	Id        uuid.UUID
	ServerId  uuid.UUID
	Name      string
	Color     string
	IsDefault bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member links a user to a server. Each membership carries exactly one role.
type Member struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	ServerId  uuid.UUID
	RoleId    uuid.UUID
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time

	// Relations
	Role *Role
}

func (m *Member) HasPremiumRole() bool {
	return m.Role != nil && m.Role.Name == RoleNamePremium
}
