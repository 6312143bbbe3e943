package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptadmin-backend-go/internal/db"
	"promptadmin-backend-go/internal/models"
)

type planFixture struct {
	svc       PlanService
	planRepo  *fakePlanRepo
	subRepo   *fakeSubscriptionRepo
	auditRepo *fakeAuditRepo
}

func newPlanFixture(t *testing.T) *planFixture {
	t.Helper()
	planRepo := newFakePlanRepo()
	subRepo := newFakeSubscriptionRepo()
	auditRepo := &fakeAuditRepo{}
	return &planFixture{
		svc:       NewPlanService(planRepo, subRepo, NewAuditService(auditRepo)),
		planRepo:  planRepo,
		subRepo:   subRepo,
		auditRepo: auditRepo,
	}
}

func TestPlanCreateAndUpdateValidation(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	plan, err := f.svc.Create(ctx, "admin-1", models.CreatePlanRequest{
		Name: "Pro", Price: 9.99, Currency: "USD", DurationDays: 30,
		GenerationLimit: 100, IsActive: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "admin-1", plan.CreatedBy)

	_, err = f.svc.Create(ctx, "admin-1", models.CreatePlanRequest{
		Name: "Broken", Price: -1, Currency: "USD", DurationDays: 30,
	})
	assert.ErrorIs(t, err, ErrValidation)

	zeroDays := 0
	_, err = f.svc.Update(ctx, "admin-1", plan.ID, models.UpdatePlanRequest{DurationDays: &zeroDays})
	assert.ErrorIs(t, err, ErrValidation)

	newPrice := 14.99
	updated, err := f.svc.Update(ctx, "admin-2", plan.ID, models.UpdatePlanRequest{Price: &newPrice})
	require.NoError(t, err)
	assert.Equal(t, 14.99, updated.Price)
	assert.Equal(t, "Pro", updated.Name)
	assert.Equal(t, "admin-2", updated.UpdatedBy)
}

func TestPlanDeleteBlockedByActiveSubscriptions(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	plan, err := f.svc.Create(ctx, "admin-1", models.CreatePlanRequest{
		Name: "Pro", Currency: "USD", DurationDays: 30, IsActive: true,
	})
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = f.subRepo.Create(ctx, &models.UserSubscription{
		UserID: "user-1", PlanID: plan.ID,
		StartDate: now, EndDate: now.AddDate(0, 0, 30), IsActive: true,
	})
	require.NoError(t, err)

	err = f.svc.Delete(ctx, "admin-1", plan.ID)
	assert.ErrorIs(t, err, ErrValidation)

	// Deactivating the last subscriber unblocks deletion.
	subs, err := f.subRepo.List(ctx, db.SubscriptionQuery{PlanID: plan.ID})
	require.NoError(t, err)
	require.Len(t, subs, 1)
	subs[0].IsActive = false
	require.NoError(t, f.subRepo.Update(ctx, subs[0]))

	require.NoError(t, f.svc.Delete(ctx, "admin-1", plan.ID))
	_, err = f.svc.GetByID(ctx, plan.ID)
	assert.ErrorIs(t, err, ErrPlanNotFound)
	assert.Contains(t, f.auditRepo.actions(), "PLAN_DELETE")
}

func TestPlanListOrdersByDisplayOrder(t *testing.T) {
	f := newPlanFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, "admin-1", models.CreatePlanRequest{
		Name: "Yearly", Currency: "USD", DurationDays: 365, Order: 2,
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, "admin-1", models.CreatePlanRequest{
		Name: "Monthly", Currency: "USD", DurationDays: 30, Order: 1,
	})
	require.NoError(t, err)

	plans, err := f.svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, "Monthly", plans[0].Name)
	assert.Equal(t, "Yearly", plans[1].Name)
}
