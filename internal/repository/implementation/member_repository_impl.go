package implementation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/mapper"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/model"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/contract"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type MemberRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ServerMapper
}

func NewMemberRepository(db *gorm.DB) contract.MemberRepository {
	return &MemberRepositoryImpl{
		db:     db,
		mapper: mapper.NewServerMapper(),
	}
}

func (r *MemberRepositoryImpl) Create(ctx context.Context, member *entity.Member) error {
	m := r.mapper.MemberToModel(member)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*member = *r.mapper.MemberToEntity(m)
	return nil
}

func (r *MemberRepositoryImpl) FindAllWithRoles(ctx context.Context, specs ...specification.Specification) ([]*entity.Member, error) {
	var models []*model.Member
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	query = query.Preload("Role")
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Member, len(models))
	for i, m := range models {
		entities[i] = r.mapper.MemberToEntity(m)
	}
	return entities, nil
}

func (r *MemberRepositoryImpl) UpdateRole(ctx context.Context, memberId uuid.UUID, roleId uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&model.Member{}).
		Where("id = ?", memberId).
		Updates(map[string]interface{}{"role_id": roleId, "updated_at": time.Now()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
