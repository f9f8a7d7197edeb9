package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type DiscountOfferRepository interface {
	// Upsert writes the offer keyed on (UserId, SubscriptionId). A later
	// offer supersedes an earlier unaccepted one for the same pair.
	Upsert(ctx context.Context, offer *entity.DiscountOffer) error

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DiscountOffer, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DiscountOffer, error)

	MarkExpired(ctx context.Context, id uuid.UUID) error
	MarkAccepted(ctx context.Context, id uuid.UUID, at time.Time) error

	// ExpireAllBefore flags every lapsed, unflagged offer. Returns the number
	// of rows touched.
	ExpireAllBefore(ctx context.Context, now time.Time) (int64, error)
}
