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

type ServerRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ServerMapper
}

func NewServerRepository(db *gorm.DB) contract.ServerRepository {
	return &ServerRepositoryImpl{
		db:     db,
		mapper: mapper.NewServerMapper(),
	}
}

func (r *ServerRepositoryImpl) Create(ctx context.Context, server *entity.Server) error {
	m := r.mapper.ToModel(server)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*server = *r.mapper.ToEntity(m)
	return nil
}

func (r *ServerRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Server, error) {
	var m model.Server
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *ServerRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Server, error) {
	var models []*model.Server
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Server, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
