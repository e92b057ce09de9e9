package usecase

import (
	"context"
	"testing"
	"time"

	"ev-rental/internal/dto/request"
	"ev-rental/pkg/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (w *world) promotionService() PromotionService {
	svc := NewPromotionService(w.repo, w.log).(*promotionService)
	svc.now = fixedClock
	return svc
}

func promotionRequest(code string, from, to time.Time) *request.PromotionRequest {
	return &request.PromotionRequest{
		Code:            code,
		DiscountPercent: 15,
		StartsAt:        from.Format(time.RFC3339),
		EndsAt:          to.Format(time.RFC3339),
	}
}

func TestPromotionService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	svc := w.promotionService()
	from, to := testNow.Add(-time.Hour), testNow.Add(72*time.Hour)

	created, err := svc.Create(ctx, promotionRequest("weekend15", from, to))
	require.NoError(t, err)
	assert.Equal(t, "WEEKEND15", created.Code)
	assert.True(t, created.IsActive)

	_, err = svc.Create(ctx, promotionRequest("WEEKEND15", from, to))
	assert.Equal(t, apperror.CodePromotionTaken, apperror.As(err).Code)

	found, err := svc.GetByCode(ctx, " weekend15 ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	active, err := svc.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)

	update := promotionRequest("IGNORED", from, to)
	update.DiscountPercent = 30
	update.IsActive = ptr(false)
	updated, err := svc.Update(ctx, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "WEEKEND15", updated.Code)
	assert.Equal(t, 30, updated.DiscountPercent)
	assert.False(t, updated.IsActive)

	_, err = svc.GetByCode(ctx, "WEEKEND15")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	require.NoError(t, svc.Delete(ctx, created.ID))
	err = svc.Delete(ctx, created.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	// The code is free again once deleted.
	_, err = svc.Create(ctx, promotionRequest("WEEKEND15", from, to))
	require.NoError(t, err)
}

func TestPromotionService_Create_Validation(t *testing.T) {
	w := newWorld()
	svc := w.promotionService()

	tests := []struct {
		name  string
		req   *request.PromotionRequest
		field string
	}{
		{"window reversed", promotionRequest("SPRING", testNow, testNow.Add(-time.Hour)), "endsAt"},
		{"empty window", promotionRequest("SPRING", testNow, testNow), "endsAt"},
		{"code with symbols", promotionRequest("SPR-NG", testNow, testNow.Add(time.Hour)), "code"},
		{"bad timestamp", &request.PromotionRequest{Code: "SPRING", DiscountPercent: 10, StartsAt: "soon", EndsAt: "later"}, "startsAt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tt.req)
			require.Error(t, err)
			assert.Contains(t, apperror.As(err).Details, tt.field)
		})
	}

	assert.Empty(t, w.store.promotions)
}
