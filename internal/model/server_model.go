package model

import (
	"time"

	"github.com/google/uuid"
)

type Server struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(255);not null"`
	ImageURL  string    `gorm:"type:text"`
	OwnerId   uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Server) TableName() string {
	return "servers"
}

type Role struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ServerId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_roles_server_name"`
	Name      string    `gorm:"type:varchar(100);not null;uniqueIndex:idx_roles_server_name"`
	Color     string    `gorm:"type:varchar(20)"`
	IsDefault bool      `gorm:"default:false"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}

type Member struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_members_user_server"`
	ServerId  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_members_user_server"`
	RoleId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Nickname  string    `gorm:"type:varchar(100)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	// Relations
	Role Role `gorm:"foreignKey:RoleId"`
}

func (Member) TableName() string {
	return "members"
}
