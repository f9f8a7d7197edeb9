package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
)

func newAccessServiceForTest(env *testEnv, now time.Time) *accessService {
	svc := NewAccessService(env.uowFactory, nil, noopLogger{}).(*accessService)
	svc.now = func() time.Time { return now }
	return svc
}

func seedSubscription(t *testing.T, env *testEnv, userId uuid.UUID, status entity.SubscriptionStatus, periodEnd *time.Time) *entity.Subscription {
	t.Helper()
	sub := &entity.Subscription{
		Id:                   uuid.New(),
		UserId:               userId,
		StripeSubscriptionId: "sub_" + uuid.New().String(),
		StripeCustomerId:     "cus_" + uuid.New().String(),
		Status:               status,
		CurrentPeriodEnd:     periodEnd,
		CreatedAt:            time.Now(),
	}
	require.NoError(t, env.uow().SubscriptionRepository().Upsert(context.Background(), sub))
	return sub
}

func TestReconcileAccessGrantsPremium(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newAccessServiceForTest(env, now)

	user := env.seedUser("trader@example.com", "cus_1")
	_, _, premiumRole, member := env.seedMembership(user.Id)

	periodEnd := now.Add(30 * 24 * time.Hour)
	seedSubscription(t, env, user.Id, entity.SubscriptionStatusActive, &periodEnd)

	require.NoError(t, svc.ReconcileAccess(context.Background(), user.Id))

	role := env.memberRole(member.Id)
	require.NotNil(t, role)
	assert.Equal(t, premiumRole.Id, role.Id)
}

func TestReconcileAccessRevokesPremium(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newAccessServiceForTest(env, now)

	user := env.seedUser("trader@example.com", "cus_1")
	_, freeRole, premiumRole, member := env.seedMembership(user.Id)

	// Start the membership out on premium.
	require.NoError(t, env.uow().MemberRepository().UpdateRole(context.Background(), member.Id, premiumRole.Id))
	seedSubscription(t, env, user.Id, entity.SubscriptionStatusCanceled, nil)

	require.NoError(t, svc.ReconcileAccess(context.Background(), user.Id))

	role := env.memberRole(member.Id)
	require.NotNil(t, role)
	assert.Equal(t, freeRole.Id, role.Id)
}

func TestReconcileAccessNoSubscriptionReadsAsFree(t *testing.T) {
	env := newTestEnv()
	svc := newAccessServiceForTest(env, time.Now())

	user := env.seedUser("trader@example.com", "")
	_, freeRole, premiumRole, member := env.seedMembership(user.Id)
	require.NoError(t, env.uow().MemberRepository().UpdateRole(context.Background(), member.Id, premiumRole.Id))

	require.NoError(t, svc.ReconcileAccess(context.Background(), user.Id))

	role := env.memberRole(member.Id)
	require.NotNil(t, role)
	assert.Equal(t, freeRole.Id, role.Id)
}

func TestReconcileAccessIsIdempotent(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newAccessServiceForTest(env, now)

	user := env.seedUser("trader@example.com", "cus_1")
	env.seedMembership(user.Id)

	periodEnd := now.Add(30 * 24 * time.Hour)
	seedSubscription(t, env, user.Id, entity.SubscriptionStatusActive, &periodEnd)

	ctx := context.Background()

	changed, premium, err := svc.ReconcileWithinTx(ctx, env.uow(), user.Id)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.True(t, premium)

	changed, premium, err = svc.ReconcileWithinTx(ctx, env.uow(), user.Id)
	require.NoError(t, err)
	assert.False(t, changed, "second pass must not flip anything")
	assert.True(t, premium)
}

func TestReconcileAccessCreatesRolesLazily(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newAccessServiceForTest(env, now)
	ctx := context.Background()

	user := env.seedUser("trader@example.com", "cus_1")

	// A server with no managed roles at all; the membership points nowhere.
	server := &entity.Server{Id: uuid.New(), Name: "Bare Server", OwnerId: uuid.New()}
	require.NoError(t, env.uow().ServerRepository().Create(ctx, server))
	member := &entity.Member{Id: uuid.New(), UserId: user.Id, ServerId: server.Id}
	require.NoError(t, env.uow().MemberRepository().Create(ctx, member))

	periodEnd := now.Add(30 * 24 * time.Hour)
	seedSubscription(t, env, user.Id, entity.SubscriptionStatusActive, &periodEnd)

	require.NoError(t, svc.ReconcileAccess(ctx, user.Id))

	created, err := env.uow().RoleRepository().FindOne(ctx,
		specification.ByServer{ServerID: server.Id},
		specification.ByName{Name: entity.RoleNamePremium},
	)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, entity.RoleColorPremium, created.Color)
	assert.False(t, created.IsDefault)

	role := env.memberRole(member.Id)
	require.NotNil(t, role)
	assert.Equal(t, created.Id, role.Id)
}

func TestReconcileAccessSpansAllMemberships(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newAccessServiceForTest(env, now)

	user := env.seedUser("trader@example.com", "cus_1")
	_, _, premiumA, memberA := env.seedMembership(user.Id)
	_, _, premiumB, memberB := env.seedMembership(user.Id)

	periodEnd := now.Add(30 * 24 * time.Hour)
	seedSubscription(t, env, user.Id, entity.SubscriptionStatusActive, &periodEnd)

	require.NoError(t, svc.ReconcileAccess(context.Background(), user.Id))

	assert.Equal(t, premiumA.Id, env.memberRole(memberA.Id).Id)
	assert.Equal(t, premiumB.Id, env.memberRole(memberB.Id).Id)
}

func TestReconcileLapsedGracePeriods(t *testing.T) {
	env := newTestEnv()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc := newAccessServiceForTest(env, now)

	// Grace lapsed: period ended 8 days ago.
	lapsedUser := env.seedUser("lapsed@example.com", "cus_lapsed")
	_, freeRole, premiumRole, lapsedMember := env.seedMembership(lapsedUser.Id)
	require.NoError(t, env.uow().MemberRepository().UpdateRole(context.Background(), lapsedMember.Id, premiumRole.Id))
	lapsedEnd := now.Add(-8 * 24 * time.Hour)
	seedSubscription(t, env, lapsedUser.Id, entity.SubscriptionStatusPastDue, &lapsedEnd)

	// Still inside grace: period ended 3 days ago, keeps premium.
	gracedUser := env.seedUser("graced@example.com", "cus_graced")
	_, _, gracedPremium, gracedMember := env.seedMembership(gracedUser.Id)
	require.NoError(t, env.uow().MemberRepository().UpdateRole(context.Background(), gracedMember.Id, gracedPremium.Id))
	gracedEnd := now.Add(-3 * 24 * time.Hour)
	seedSubscription(t, env, gracedUser.Id, entity.SubscriptionStatusPastDue, &gracedEnd)

	reconciled, err := svc.ReconcileLapsedGracePeriods(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, reconciled)

	assert.Equal(t, freeRole.Id, env.memberRole(lapsedMember.Id).Id)
	assert.Equal(t, gracedPremium.Id, env.memberRole(gracedMember.Id).Id)
}
