package discounts

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/service/discounts/models"
)

type fakeRepo struct {
	cfg      *domain.DiscountConfig
	replaced *domain.DiscountConfig
}

func (f *fakeRepo) GetConfig(_ context.Context, _ int64) (*domain.DiscountConfig, error) {
	if f.cfg == nil {
		return &domain.DiscountConfig{WeekdayPercents: map[int]int{}}, nil
	}
	return f.cfg, nil
}

func (f *fakeRepo) ReplaceConfig(_ context.Context, _ int64, cfg *domain.DiscountConfig) error {
	f.replaced = cfg
	return nil
}

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestGetConfig_UnconfiguredStylistGetsZeroConfig(t *testing.T) {
	svc := NewService(&fakeRepo{}, passthroughTxManager{}, nopLogger{})

	resp, err := svc.GetConfig(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 0, resp.FirstVisitPercent)
	assert.Empty(t, resp.WeekdayDiscounts)
	assert.Empty(t, resp.DateRangeDiscounts)
}

func TestUpdateConfig_ReplacesAllRuleSets(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, passthroughTxManager{}, nopLogger{})

	from := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	resp, err := svc.UpdateConfig(context.Background(), 1, &models.UpdateDiscountConfigRequest{
		FirstVisitPercent: 30,
		Rebook1WPercent:   20,
		Rebook2WPercent:   10,
		WeekdayDiscounts:  []models.WeekdayDiscount{{Weekday: 1, Percent: 50}},
		DateRangeDiscounts: []models.DateRangeDiscount{
			{ValidFrom: from, ValidTo: to, Percent: 25},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, repo.replaced)
	assert.Equal(t, 30, repo.replaced.FirstVisitPercent)
	assert.Equal(t, 50, repo.replaced.WeekdayPercents[1])
	require.Len(t, repo.replaced.DateRanges, 1)
	assert.Equal(t, 25, repo.replaced.DateRanges[0].Percent)

	assert.Equal(t, 30, resp.FirstVisitPercent)
	require.Len(t, resp.WeekdayDiscounts, 1)
}

func TestUpdateConfig_ValidationErrors(t *testing.T) {
	svc := NewService(&fakeRepo{}, passthroughTxManager{}, nopLogger{})

	day := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		req  *models.UpdateDiscountConfigRequest
	}{
		{"percent above 100", &models.UpdateDiscountConfigRequest{FirstVisitPercent: 120}},
		{"negative percent", &models.UpdateDiscountConfigRequest{Rebook1WPercent: -5}},
		{"weekday out of range", &models.UpdateDiscountConfigRequest{WeekdayDiscounts: []models.WeekdayDiscount{{Weekday: 8, Percent: 10}}}},
		{"duplicate weekday", &models.UpdateDiscountConfigRequest{WeekdayDiscounts: []models.WeekdayDiscount{{Weekday: 1, Percent: 10}, {Weekday: 1, Percent: 20}}}},
		{"reversed date range", &models.UpdateDiscountConfigRequest{DateRangeDiscounts: []models.DateRangeDiscount{{ValidFrom: day, ValidTo: day.AddDate(0, 0, -1), Percent: 10}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateConfig(context.Background(), 1, tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
