package memory

import (
	"context"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	cp := *user
	r.store.users[user.Id] = &cp
	return nil
}

func (r *userRepository) Update(ctx context.Context, user *entity.User) error {
	return r.Create(ctx, user)
}

func (r *userRepository) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if matchUser(u, specs) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepository) FindByStripeCustomerId(ctx context.Context, customerId string) (*entity.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, u := range r.store.users {
		if u.StripeCustomerId != nil && *u.StripeCustomerId == customerId {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	return int64(len(r.store.users)), nil
}

func matchUser(u *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if u.Id != s.ID {
				return false
			}
		default:
			panic(unsupportedSpec(spec))
		}
	}
	return true
}
