package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/pkg/logger"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/unitofwork"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/events"
	pktNats "github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/nats"
)

type IAccessService interface {
	// ReconcileAccess aligns every membership's role with the user's current
	// subscription status, inside its own transaction.
	ReconcileAccess(ctx context.Context, userId uuid.UUID) error

	// ReconcileWithinTx runs the same pass on an already-open unit of work,
	// so a webhook handler can commit the subscription write and the role
	// changes atomically. Returns whether any role flipped and the access
	// level that was applied; the caller publishes events after commit.
	ReconcileWithinTx(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (changed bool, premium bool, err error)

	// ReconcileLapsedGracePeriods re-evaluates past_due subscriptions whose
	// grace window ended, revoking access that no webhook will revoke for us.
	ReconcileLapsedGracePeriods(ctx context.Context) (int, error)
}

type accessService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
	now            func() time.Time
}

func NewAccessService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, log logger.ILogger) IAccessService {
	return &accessService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		log:            log,
		now:            time.Now,
	}
}

func (s *accessService) ReconcileAccess(ctx context.Context, userId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	changed, premium, err := s.ReconcileWithinTx(ctx, uow, userId)
	if err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	if changed {
		s.publishAccessChange(ctx, userId, premium)
	}
	return nil
}

func (s *accessService) ReconcileWithinTx(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID) (bool, bool, error) {
	sub, err := uow.SubscriptionRepository().FindOne(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return false, false, err
	}

	// A user with no record is simply free; reconciliation still runs so a
	// deleted or never-created subscription converges to the free role.
	desired := entity.ShouldGrantPremiumAccess(sub, s.now())

	members, err := uow.MemberRepository().FindAllWithRoles(ctx, specification.UserOwnedBy{UserID: userId})
	if err != nil {
		return false, desired, err
	}

	flipped := 0
	for _, member := range members {
		current := member.HasPremiumRole()
		if current == desired {
			continue // already correct, idempotent no-op
		}

		role, err := s.resolveRole(ctx, uow, member.ServerId, desired)
		if err != nil {
			return false, desired, err
		}

		if err := uow.MemberRepository().UpdateRole(ctx, member.Id, role.Id); err != nil {
			return false, desired, err
		}
		flipped++
	}

	s.log.Info("access", "reconciled user access", map[string]interface{}{
		"operation":   "reconcile_access",
		"user_id":     userId.String(),
		"premium":     desired,
		"memberships": len(members),
		"role_flips":  flipped,
		"success":     true,
	})

	return flipped > 0, desired, nil
}

// resolveRole finds the premium or free role scoped to one server, creating
// it lazily on first use. The free role doubles as the server default.
func (s *accessService) resolveRole(ctx context.Context, uow unitofwork.UnitOfWork, serverId uuid.UUID, premium bool) (*entity.Role, error) {
	name := entity.RoleNameFree
	color := entity.RoleColorFree
	if premium {
		name = entity.RoleNamePremium
		color = entity.RoleColorPremium
	}

	role, err := uow.RoleRepository().FindOne(ctx,
		specification.ByServer{ServerID: serverId},
		specification.ByName{Name: name},
	)
	if err != nil {
		return nil, err
	}
	if role != nil {
		return role, nil
	}

	role = &entity.Role{
		Id:        uuid.New(),
		ServerId:  serverId,
		Name:      name,
		Color:     color,
		IsDefault: !premium,
	}
	if err := uow.RoleRepository().Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *accessService) ReconcileLapsedGracePeriods(ctx context.Context) (int, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	cutoff := s.now().Add(-entity.PaymentGracePeriod)
	subs, err := uow.SubscriptionRepository().FindAll(ctx, specification.GraceLapsedBefore{Cutoff: cutoff})
	if err != nil {
		return 0, err
	}

	reconciled := 0
	for _, sub := range subs {
		if err := s.ReconcileAccess(ctx, sub.UserId); err != nil {
			s.log.Error("access", "grace sweep reconciliation failed", map[string]interface{}{
				"operation":       "grace_sweep",
				"user_id":         sub.UserId.String(),
				"subscription_id": maskID(sub.StripeSubscriptionId),
				"success":         false,
				"error":           err.Error(),
			})
			continue
		}
		reconciled++
	}
	return reconciled, nil
}

func (s *accessService) publishAccessChange(ctx context.Context, userId uuid.UUID, premium bool) {
	if s.eventPublisher == nil {
		return
	}
	eventType := events.TypePremiumRevoked
	if premium {
		eventType = events.TypeSubscriptionActivated
	}
	evt := events.NewBillingEvent(eventType, map[string]interface{}{
		"user_id": userId,
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.log.Warn("access", "failed to publish access change event", map[string]interface{}{
			"operation": "publish_event",
			"event":     eventType,
			"user_id":   userId.String(),
			"success":   false,
			"error":     err.Error(),
		})
	}
}
