// Package memory holds map-backed repository implementations used by service
// unit tests. Specifications are matched by type-switching on the concrete
// filter structs; unknown specification types panic so a test never silently
// skips a filter.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/contract"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/unitofwork"
	"github.com/google/uuid"
)

// Store is the shared backing state for one in-memory repository set.
type Store struct {
	mu            sync.RWMutex
	users         map[uuid.UUID]*entity.User
	subscriptions map[uuid.UUID]*entity.Subscription
	offers        map[uuid.UUID]*entity.DiscountOffer
	servers       map[uuid.UUID]*entity.Server
	roles         map[uuid.UUID]*entity.Role
	members       map[uuid.UUID]*entity.Member
}

func NewStore() *Store {
	return &Store{
		users:         make(map[uuid.UUID]*entity.User),
		subscriptions: make(map[uuid.UUID]*entity.Subscription),
		offers:        make(map[uuid.UUID]*entity.DiscountOffer),
		servers:       make(map[uuid.UUID]*entity.Server),
		roles:         make(map[uuid.UUID]*entity.Role),
		members:       make(map[uuid.UUID]*entity.Member),
	}
}

// unitOfWork is a no-op transactional wrapper: Begin/Commit/Rollback do
// nothing because the store mutates in place. Good enough for unit tests that
// exercise service logic rather than transaction isolation.
type unitOfWork struct {
	store *Store
}

func (u *unitOfWork) Begin(ctx context.Context) error { return nil }
func (u *unitOfWork) Commit() error                   { return nil }
func (u *unitOfWork) Rollback() error                 { return nil }

func (u *unitOfWork) UserRepository() contract.UserRepository {
	return &userRepository{store: u.store}
}

func (u *unitOfWork) SubscriptionRepository() contract.SubscriptionRepository {
	return &subscriptionRepository{store: u.store}
}

func (u *unitOfWork) DiscountOfferRepository() contract.DiscountOfferRepository {
	return &discountOfferRepository{store: u.store}
}

func (u *unitOfWork) ServerRepository() contract.ServerRepository {
	return &serverRepository{store: u.store}
}

func (u *unitOfWork) RoleRepository() contract.RoleRepository {
	return &roleRepository{store: u.store}
}

func (u *unitOfWork) MemberRepository() contract.MemberRepository {
	return &memberRepository{store: u.store}
}

type factory struct {
	store *Store
}

// NewFactory wraps a store as a unit-of-work factory for injection into
// services under test.
func NewFactory(store *Store) unitofwork.RepositoryFactory {
	return &factory{store: store}
}

func (f *factory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &unitOfWork{store: f.store}
}

func unsupportedSpec(spec specification.Specification) string {
	return fmt.Sprintf("in-memory repository cannot apply specification %T", spec)
}
