package unitofwork

import (
	"context"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SubscriptionRepository() contract.SubscriptionRepository
	DiscountOfferRepository() contract.DiscountOfferRepository
	ServerRepository() contract.ServerRepository
	RoleRepository() contract.RoleRepository
	MemberRepository() contract.MemberRepository
}
