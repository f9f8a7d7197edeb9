package contract

import (
	"context"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByStripeCustomerId(ctx context.Context, customerId string) (*entity.User, error)
	Count(ctx context.Context) (int64, error)
}
