package mapper

import (
	"jaspel-be/internal/entity"
	"jaspel-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:        u.Id,
		Name:      u.Name,
		Email:     u.Email,
		RoleId:    u.RoleId,
		Role:      m.RoleToEntity(u.Role),
		IsActive:  u.IsActive,
		PegawaiId: u.PegawaiId,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	out := make([]*entity.User, 0, len(users))
	for _, u := range users {
		out = append(out, m.ToEntity(u))
	}
	return out
}

func (m *UserMapper) RoleToEntity(r *model.Role) *entity.Role {
	if r == nil {
		return nil
	}
	return &entity.Role{
		Id:          r.Id,
		Name:        r.Name,
		DisplayName: r.DisplayName,
		CreatedAt:   r.CreatedAt,
	}
}

func (m *UserMapper) RolesToEntities(roles []*model.Role) []*entity.Role {
	out := make([]*entity.Role, 0, len(roles))
	for _, r := range roles {
		out = append(out, m.RoleToEntity(r))
	}
	return out
}
