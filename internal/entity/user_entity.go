package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id        uuid.UUID
	Name      string
	Email     string
	RoleId    *uuid.UUID
	Role      *Role
	IsActive  bool
	PegawaiId *uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RoleName returns the role name or "" when the user has no resolvable role.
func (u *User) RoleName() string {
	if u == nil || u.Role == nil {
		return ""
	}
	return u.Role.Name
}

type Role struct {
	Id          uuid.UUID
	Name        string
	DisplayName string
	CreatedAt   time.Time
}

type UserFilter struct {
	Ids        []uuid.UUID
	RoleNames  []string
	ActiveOnly bool
}
