package mapper

import (
	"github.com/google/uuid"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/model"
)

type ServerMapper struct{}

func NewServerMapper() *ServerMapper {
	return &ServerMapper{}
}

func (m *ServerMapper) ToEntity(s *model.Server) *entity.Server {
	if s == nil {
		return nil
	}
	return &entity.Server{
		Id:        s.Id,
		Name:      s.Name,
		ImageURL:  s.ImageURL,
		OwnerId:   s.OwnerId,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *ServerMapper) ToModel(s *entity.Server) *model.Server {
	if s == nil {
		return nil
	}
	return &model.Server{
		Id:        s.Id,
		Name:      s.Name,
		ImageURL:  s.ImageURL,
		OwnerId:   s.OwnerId,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func (m *ServerMapper) RoleToEntity(r *model.Role) *entity.Role {
	if r == nil {
		return nil
	}
	return &entity.Role{
		Id:        r.Id,
		ServerId:  r.ServerId,
		Name:      r.Name,
		Color:     r.Color,
		IsDefault: r.IsDefault,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (m *ServerMapper) RoleToModel(r *entity.Role) *model.Role {
	if r == nil {
		return nil
	}
	return &model.Role{
		Id:        r.Id,
		ServerId:  r.ServerId,
		Name:      r.Name,
		Color:     r.Color,
		IsDefault: r.IsDefault,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (m *ServerMapper) MemberToEntity(mb *model.Member) *entity.Member {
	if mb == nil {
		return nil
	}
	e := &entity.Member{
		Id:        mb.Id,
		UserId:    mb.UserId,
		ServerId:  mb.ServerId,
		RoleId:    mb.RoleId,
		Nickname:  mb.Nickname,
		CreatedAt: mb.CreatedAt,
		UpdatedAt: mb.UpdatedAt,
	}
	if mb.Role.Id != uuid.Nil {
		e.Role = m.RoleToEntity(&mb.Role)
	}
	return e
}

func (m *ServerMapper) MemberToModel(mb *entity.Member) *model.Member {
	if mb == nil {
		return nil
	}
	return &model.Member{
		Id:        mb.Id,
		UserId:    mb.UserId,
		ServerId:  mb.ServerId,
		RoleId:    mb.RoleId,
		Nickname:  mb.Nickname,
		CreatedAt: mb.CreatedAt,
		UpdatedAt: mb.UpdatedAt,
	}
}
