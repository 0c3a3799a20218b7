package businessmetrics

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/resellernumbers-backend/internal/profitability"
	"github.com/angelmondragon/resellernumbers-backend/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/resellernumbers-backend/pkg/errors"
)

func TestGetDefaultsToZero(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.True(t, got.MinutesPerItem.IsZero())
	assert.True(t, got.TaxBracket.IsZero())
}

func TestSaveUpserts(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)
	ctx := context.Background()
	user := uuid.New()

	_, err = svc.Save(ctx, user, profitability.BusinessMetrics{
		MinutesPerItem:  decimal.NewFromInt(10),
		IdealHourlyRate: decimal.NewFromInt(20),
		AvgFeePercent:   decimal.RequireFromString("13.25"),
		TaxBracket:      decimal.NewFromInt(22),
	})
	require.NoError(t, err)

	_, err = svc.Save(ctx, user, profitability.BusinessMetrics{
		MinutesPerItem:  decimal.NewFromInt(12),
		IdealHourlyRate: decimal.NewFromInt(25),
		AvgFeePercent:   decimal.NewFromInt(13),
		TaxBracket:      decimal.NewFromInt(24),
	})
	require.NoError(t, err)

	got, err := svc.Get(ctx, user)
	require.NoError(t, err)
	assert.True(t, got.MinutesPerItem.Equal(decimal.NewFromInt(12)))
	assert.True(t, got.IdealHourlyRate.Equal(decimal.NewFromInt(25)))
	assert.True(t, got.TaxBracket.Equal(decimal.NewFromInt(24)))
}

func TestSaveRejectsOutOfRange(t *testing.T) {
	svc, err := NewService(NewRepository(dbtest.Open(t)))
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), uuid.New(), profitability.BusinessMetrics{
		MinutesPerItem: decimal.NewFromInt(-1),
		AvgFeePercent:  decimal.NewFromInt(101),
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details := typed.Details().(map[string]string)
	assert.Contains(t, details, "minutes_per_item")
	assert.Contains(t, details, "avg_fee_percent")
}
