package contract

import (
	"context"

	"github.com/google/uuid"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type ServerRepository interface {
	Create(ctx context.Context, server *entity.Server) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Server, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Server, error)
}

type RoleRepository interface {
	Create(ctx context.Context, role *entity.Role) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Role, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Role, error)
}

type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error

	// FindAllWithRoles preloads each membership's current role so the
	// reconciler can diff without extra queries.
	FindAllWithRoles(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error)

	UpdateRole(ctx context.Context, memberId uuid.UUID, roleId uuid.UUID) error
}
