package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v82"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/memory"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/unitofwork"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type testEnv struct {
	store      *memory.Store
	uowFactory unitofwork.RepositoryFactory
}

func newTestEnv() *testEnv {
	store := memory.NewStore()
	return &testEnv{
		store:      store,
		uowFactory: memory.NewFactory(store),
	}
}

func (e *testEnv) uow() unitofwork.UnitOfWork {
	return e.uowFactory.NewUnitOfWork(context.Background())
}

func (e *testEnv) seedUser(email, customerId string) *entity.User {
	user := &entity.User{
		Id:       uuid.New(),
		Email:    email,
		FullName: "Test User",
	}
	if customerId != "" {
		user.StripeCustomerId = &customerId
	}
	if err := e.uow().UserRepository().Create(context.Background(), user); err != nil {
		panic(err)
	}
	return user
}

// seedMembership creates a server with both managed roles and a membership
// holding the free role.
func (e *testEnv) seedMembership(userId uuid.UUID) (*entity.Server, *entity.Role, *entity.Role, *entity.Member) {
	ctx := context.Background()
	uow := e.uow()

	server := &entity.Server{Id: uuid.New(), Name: "Trading Floor", OwnerId: uuid.New()}
	if err := uow.ServerRepository().Create(ctx, server); err != nil {
		panic(err)
	}

	freeRole := &entity.Role{
		Id: uuid.New(), ServerId: server.Id,
		Name: entity.RoleNameFree, Color: entity.RoleColorFree, IsDefault: true,
	}
	premiumRole := &entity.Role{
		Id: uuid.New(), ServerId: server.Id,
		Name: entity.RoleNamePremium, Color: entity.RoleColorPremium,
	}
	for _, role := range []*entity.Role{freeRole, premiumRole} {
		if err := uow.RoleRepository().Create(ctx, role); err != nil {
			panic(err)
		}
	}

	member := &entity.Member{
		Id: uuid.New(), UserId: userId, ServerId: server.Id, RoleId: freeRole.Id,
	}
	if err := uow.MemberRepository().Create(ctx, member); err != nil {
		panic(err)
	}
	return server, freeRole, premiumRole, member
}

func (e *testEnv) memberRole(memberId uuid.UUID) *entity.Role {
	members, err := e.uow().MemberRepository().FindAllWithRoles(context.Background())
	if err != nil {
		panic(err)
	}
	for _, mb := range members {
		if mb.Id == memberId {
			return mb.Role
		}
	}
	return nil
}

// fakeGateway is an in-memory stand-in for the Stripe API.
type fakeGateway struct {
	subscriptions map[string]*stripe.Subscription
	sessions      map[string]*stripe.CheckoutSession
	customers     map[string]*stripe.Customer
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		subscriptions: make(map[string]*stripe.Subscription),
		sessions:      make(map[string]*stripe.CheckoutSession),
		customers:     make(map[string]*stripe.Customer),
	}
}

func (g *fakeGateway) GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	sub, ok := g.subscriptions[id]
	if !ok {
		return nil, fmt.Errorf("no such subscription: %s", id)
	}
	return sub, nil
}

func (g *fakeGateway) GetCheckoutSession(ctx context.Context, id string) (*stripe.CheckoutSession, error) {
	sess, ok := g.sessions[id]
	if !ok {
		return nil, fmt.Errorf("no such checkout session: %s", id)
	}
	return sess, nil
}

func (g *fakeGateway) GetCustomer(ctx context.Context, id string) (*stripe.Customer, error) {
	cust, ok := g.customers[id]
	if !ok {
		return nil, fmt.Errorf("no such customer: %s", id)
	}
	return cust, nil
}

func (g *fakeGateway) ScheduleCancellation(ctx context.Context, subscriptionID string) (*stripe.Subscription, error) {
	sub, ok := g.subscriptions[subscriptionID]
	if !ok {
		return nil, fmt.Errorf("no such subscription: %s", subscriptionID)
	}
	sub.CancelAtPeriodEnd = true
	return sub, nil
}

// stripeSubscription builds the minimal SDK object the extractor needs.
func stripeSubscription(id, customerId, email, status string, periodStart, periodEnd time.Time) *stripe.Subscription {
	return &stripe.Subscription{
		ID:      id,
		Status:  stripe.SubscriptionStatus(status),
		Created: periodStart.Unix(),
		Customer: &stripe.Customer{
			ID:    customerId,
			Email: email,
		},
		Items: &stripe.SubscriptionItemList{
			Data: []*stripe.SubscriptionItem{
				{
					CurrentPeriodStart: periodStart.Unix(),
					CurrentPeriodEnd:   periodEnd.Unix(),
				},
			},
		},
	}
}
