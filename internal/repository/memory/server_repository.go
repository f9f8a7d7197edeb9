package memory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type serverRepository struct {
	store *Store
}

func (r *serverRepository) Create(ctx context.Context, server *entity.Server) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *server
	r.store.servers[server.Id] = &cp
	return nil
}

func (r *serverRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Server, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, srv := range r.store.servers {
		if matchServer(srv, specs) {
			cp := *srv
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *serverRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Server, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Server
	for _, srv := range r.store.servers {
		if matchServer(srv, specs) {
			cp := *srv
			out = append(out, &cp)
		}
	}
	return out, nil
}

func matchServer(srv *entity.Server, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if srv.Id != s.ID {
				return false
			}
		case specification.ByName:
			if srv.Name != s.Name {
				return false
			}
		default:
			panic(unsupportedSpec(spec))
		}
	}
	return true
}

type roleRepository struct {
	store *Store
}

func (r *roleRepository) Create(ctx context.Context, role *entity.Role) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *role
	r.store.roles[role.Id] = &cp
	return nil
}

func (r *roleRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Role, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, role := range r.store.roles {
		if matchRole(role, specs) {
			cp := *role
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *roleRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Role, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Role
	for _, role := range r.store.roles {
		if matchRole(role, specs) {
			cp := *role
			out = append(out, &cp)
		}
	}
	return out, nil
}

func matchRole(role *entity.Role, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if role.Id != s.ID {
				return false
			}
		case specification.ByServer:
			if role.ServerId != s.ServerID {
				return false
			}
		case specification.ByName:
			if role.Name != s.Name {
				return false
			}
		default:
			panic(unsupportedSpec(spec))
		}
	}
	return true
}

type memberRepository struct {
	store *Store
}

func (r *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *member
	cp.Role = nil
	r.store.members[member.Id] = &cp
	return nil
}

func (r *memberRepository) FindAllWithRoles(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var out []*entity.Member
	for _, mb := range r.store.members {
		if matchMember(mb, specs) {
			cp := *mb
			if role, ok := r.store.roles[mb.RoleId]; ok {
				roleCp := *role
				cp.Role = &roleCp
			}
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memberRepository) UpdateRole(ctx context.Context, memberId uuid.UUID, roleId uuid.UUID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	mb, ok := r.store.members[memberId]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	mb.RoleId = roleId
	return nil
}

func matchMember(mb *entity.Member, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if mb.Id != s.ID {
				return false
			}
		case specification.UserOwnedBy:
			if mb.UserId != s.UserID {
				return false
			}
		case specification.ByServer:
			if mb.ServerId != s.ServerID {
				return false
			}
		default:
			panic(unsupportedSpec(spec))
		}
	}
	return true
}
