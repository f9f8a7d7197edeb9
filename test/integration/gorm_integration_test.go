package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/entity"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/specification"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/internal/repository/unitofwork"
	"github.com/Tafreed57/TradersUtopia-resume-sub000/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.SubscriptionRepository())
	assert.NotNil(t, uow.DiscountOfferRepository())
	assert.NotNil(t, uow.MemberRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Transactional Subscription Upsert", func(t *testing.T) {
		ctx := context.Background()

		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
		}
		err := uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		err = uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		periodEnd := time.Now().Add(30 * 24 * time.Hour)
		sub := &entity.Subscription{
			UserId:               userId,
			StripeSubscriptionId: "sub_it_" + uuid.New().String(),
			StripeCustomerId:     "cus_it_" + uuid.New().String(),
			Status:               entity.SubscriptionStatusActive,
			CurrentPeriodEnd:     &periodEnd,
			CreatedAt:            time.Now(),
		}

		err = uow.SubscriptionRepository().Upsert(ctx, sub)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, sub.Id)

		// Second upsert with the same external id must hit the same row.
		sub2 := *sub
		sub2.Id = uuid.Nil
		sub2.Status = entity.SubscriptionStatusPastDue
		err = uow.SubscriptionRepository().Upsert(ctx, &sub2)
		assert.NoError(t, err)
		assert.Equal(t, sub.Id, sub2.Id)

		found, err := uow.SubscriptionRepository().FindOne(ctx,
			specification.ByStripeSubscriptionID{StripeSubscriptionID: sub.StripeSubscriptionId})
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, entity.SubscriptionStatusPastDue, found.Status)
		}

		err = uow.Commit()
		assert.NoError(t, err)

		t.Log("Successfully upserted Subscription in Transaction")
	})
}
