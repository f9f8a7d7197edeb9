package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/mapper"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/model"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/contract"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type RoleRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ServerMapper
}

func NewRoleRepository(db *gorm.DB) contract.RoleRepository {
	return &RoleRepositoryImpl{
		db:     db,
		mapper: mapper.NewServerMapper(),
	}
}

func (r *RoleRepositoryImpl) Create(ctx context.Context, role *entity.Role) error {
	m := r.mapper.RoleToModel(role)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*role = *r.mapper.RoleToEntity(m)
	return nil
}

func (r *RoleRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Role, error) {
	var m model.Role
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.RoleToEntity(&m), nil
}

func (r *RoleRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Role, error) {
	var models []*model.Role
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Role, len(models))
	for i, m := range models {
		entities[i] = r.mapper.RoleToEntity(m)
	}
	return entities, nil
}
