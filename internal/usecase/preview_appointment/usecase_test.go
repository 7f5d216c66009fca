package preview_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stylistservice"
	"github.com/m04kA/SMC-AppointmentService/internal/pricing"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeAppointmentRepo struct {
	appointments map[uuid.UUID]*domain.Appointment
	dayList      []*domain.Appointment
	lastVisit    *time.Time
}

func (f *fakeAppointmentRepo) GetByUUID(_ context.Context, uid uuid.UUID) (*domain.Appointment, error) {
	apt, ok := f.appointments[uid]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return apt, nil
}

func (f *fakeAppointmentRepo) GetByStylistWithFilter(_ context.Context, filter domain.StylistAppointmentsFilter) ([]*domain.Appointment, error) {
	list := make([]*domain.Appointment, 0, len(f.dayList))
	for _, apt := range f.dayList {
		if filter.StartFrom != nil && apt.StartTime.Before(*filter.StartFrom) {
			continue
		}
		if filter.StartTo != nil && !apt.StartTime.Before(*filter.StartTo) {
			continue
		}
		list = append(list, apt)
	}
	return list, nil
}

func (f *fakeAppointmentRepo) GetLastCheckedOutVisit(_ context.Context, _, _ int64) (*time.Time, error) {
	return f.lastVisit, nil
}

type fakeDiscountRepo struct {
	cfg domain.DiscountConfig
}

func (f *fakeDiscountRepo) GetConfig(_ context.Context, _ int64) (*domain.DiscountConfig, error) {
	cfg := f.cfg
	return &cfg, nil
}

type fakeStylistClient struct {
	stylist  *stylistservice.Stylist
	services map[int64]*stylistservice.Service
}

func (f *fakeStylistClient) GetStylist(_ context.Context, _ int64) (*stylistservice.Stylist, error) {
	if f.stylist == nil {
		return nil, stylistservice.ErrStylistNotFound
	}
	return f.stylist, nil
}

func (f *fakeStylistClient) GetService(_ context.Context, _, serviceID int64) (*stylistservice.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok {
		return nil, stylistservice.ErrServiceNotFound
	}
	return svc, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testStylist() *stylistservice.Stylist {
	start := "10:00"
	end := "18:00"
	day := stylistservice.DaySchedule{IsAvailable: true, StartTime: &start, EndTime: &end}
	return &stylistservice.Stylist{
		ID:                1,
		Name:              "Anna",
		ServiceGapMinutes: 60,
		WorkingHours: stylistservice.WeekSchedule{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
		},
	}
}

func testSettings() pricing.Settings {
	return pricing.Settings{
		TaxRatePercent: dec("8"),
		CardFeePercent: dec("3"),
	}
}

// Понедельник в рабочем расписании стилиста
var monday = time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)

func newTestUseCase(repo *fakeAppointmentRepo, discounts *fakeDiscountRepo, client *fakeStylistClient) *UseCase {
	return NewUseCase(repo, discounts, client, testSettings(), nopLogger{})
}

func TestExecute_NewAppointmentFullPipeline(t *testing.T) {
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{}}
	discounts := &fakeDiscountRepo{cfg: domain.DiscountConfig{
		WeekdayPercents: map[int]int{1: 50}, // понедельник
	}}
	client := &fakeStylistClient{
		stylist: testStylist(),
		services: map[int64]*stylistservice.Service{
			10: {ID: 10, StylistID: 1, Name: "Haircut", Price: dec("40.00"), DurationMinutes: 45},
		},
	}
	uc := newTestUseCase(repo, discounts, client)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:  1,
		ClientID:   ptr.Ptr(int64(7)),
		Services:   []RequestedService{{ServiceID: 10}},
		StartTime:  monday,
		IncludeTax: true,
	})
	require.NoError(t, err)

	require.Len(t, resp.Services, 1)
	line := resp.Services[0]
	assert.True(t, line.ClientPrice.Equal(dec("20")), "got %s", line.ClientPrice)
	assert.Equal(t, string(domain.DiscountWeekday), line.AppliedDiscount)
	assert.Equal(t, 50, line.DiscountPercent)
	assert.True(t, line.IsOriginal)
	assert.False(t, line.IsPriceEdited)

	// Слот записи равен service-time-gap стилиста, а не длительности услуги
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.False(t, resp.Saturated)
	assert.Empty(t, resp.ConflictsWith)
}

func TestExecute_TaxBeforeFeeComposition(t *testing.T) {
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{}}
	discounts := &fakeDiscountRepo{}
	client := &fakeStylistClient{
		stylist: testStylist(),
		services: map[int64]*stylistservice.Service{
			10: {ID: 10, StylistID: 1, Name: "Color", Price: dec("100.00"), DurationMinutes: 90},
		},
	}
	uc := newTestUseCase(repo, discounts, client)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:      1,
		Services:       []RequestedService{{ServiceID: 10}},
		StartTime:      monday,
		IncludeTax:     true,
		IncludeCardFee: true,
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalBeforeTax.Equal(dec("100")), "got %s", resp.TotalBeforeTax)
	assert.True(t, resp.TotalTax.Equal(dec("8")), "got %s", resp.TotalTax)
	// Комиссия считается от суммы с налогом: 3% от 108
	assert.True(t, resp.TotalCardFee.Equal(dec("3.24")), "got %s", resp.TotalCardFee)
	assert.True(t, resp.GrandTotal.Equal(dec("111.24")), "got %s", resp.GrandTotal)
}

func TestExecute_ExistingLineReusedVerbatim(t *testing.T) {
	// Даже при действующей 100% скидке сохранённая строка не пересчитывается
	uid := uuid.New()
	existing := &domain.Appointment{
		ID:              1,
		UUID:            uid,
		StylistID:       1,
		StartTime:       monday,
		DurationMinutes: 60,
		Status:          domain.StatusCheckedOut,
		Services: []domain.AppointmentServiceLine{
			{ServiceID: 10, Name: "Haircut", RegularPrice: dec("40.00"), ClientPrice: dec("33.33"), DurationMinutes: 45, IsOriginal: true},
		},
	}
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{uid: existing}}
	discounts := &fakeDiscountRepo{cfg: domain.DiscountConfig{WeekdayPercents: map[int]int{1: 100}}}
	client := &fakeStylistClient{stylist: testStylist()}
	uc := newTestUseCase(repo, discounts, client)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:               1,
		Services:                []RequestedService{{ServiceID: 10}},
		StartTime:               monday,
		ExistingAppointmentUUID: &uid,
	})
	require.NoError(t, err)

	require.Len(t, resp.Services, 1)
	assert.True(t, resp.Services[0].ClientPrice.Equal(dec("33.33")), "got %s", resp.Services[0].ClientPrice)
	assert.True(t, resp.Services[0].IsOriginal)
	assert.Equal(t, 60, resp.DurationMinutes)
}

func TestExecute_CheckedOutAppointmentReturnsFrozenTotals(t *testing.T) {
	// Суммы заморожены при ставке налога 10%: пересчёт по текущим ставкам (8%/3%)
	// дал бы другие значения, но возвращаются именно замороженные
	uid := uuid.New()
	frozenBeforeTax := dec("100.00")
	frozenTax := dec("10.00")
	frozenFee := dec("3.30")
	frozenGrand := dec("113.30")
	existing := &domain.Appointment{
		ID:              1,
		UUID:            uid,
		StylistID:       1,
		StartTime:       monday,
		DurationMinutes: 60,
		Status:          domain.StatusCheckedOut,
		Services: []domain.AppointmentServiceLine{
			{ServiceID: 10, Name: "Haircut", RegularPrice: dec("60.00"), ClientPrice: dec("60.00"), DurationMinutes: 45, IsOriginal: true},
			{ServiceID: 11, Name: "Styling", RegularPrice: dec("40.00"), ClientPrice: dec("40.00"), DurationMinutes: 30, IsOriginal: true},
		},
		TotalBeforeTax: &frozenBeforeTax,
		TotalTax:       &frozenTax,
		TotalCardFee:   &frozenFee,
		GrandTotal:     &frozenGrand,
	}
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{uid: existing}}
	client := &fakeStylistClient{stylist: testStylist()}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:               1,
		Services:                []RequestedService{{ServiceID: 10}, {ServiceID: 11}},
		StartTime:               monday,
		IncludeTax:              true,
		IncludeCardFee:          true,
		ExistingAppointmentUUID: &uid,
	})
	require.NoError(t, err)

	assert.True(t, resp.TotalBeforeTax.Equal(frozenBeforeTax), "got %s", resp.TotalBeforeTax)
	assert.True(t, resp.TotalTax.Equal(frozenTax), "got %s", resp.TotalTax)
	assert.True(t, resp.TotalCardFee.Equal(frozenFee), "got %s", resp.TotalCardFee)
	assert.True(t, resp.GrandTotal.Equal(frozenGrand), "got %s", resp.GrandTotal)
}

func TestExecute_CheckedOutAppointmentWithAdditionRecomputesTotals(t *testing.T) {
	// Добавленная услуга делает замороженные суммы неприменимыми
	uid := uuid.New()
	frozenBeforeTax := dec("60.00")
	frozenTax := dec("6.00")
	frozenFee := dec("1.98")
	frozenGrand := dec("67.98")
	existing := &domain.Appointment{
		ID:              1,
		UUID:            uid,
		StylistID:       1,
		StartTime:       monday,
		DurationMinutes: 60,
		Status:          domain.StatusCheckedOut,
		Services: []domain.AppointmentServiceLine{
			{ServiceID: 10, Name: "Haircut", RegularPrice: dec("60.00"), ClientPrice: dec("60.00"), DurationMinutes: 45, IsOriginal: true},
		},
		TotalBeforeTax: &frozenBeforeTax,
		TotalTax:       &frozenTax,
		TotalCardFee:   &frozenFee,
		GrandTotal:     &frozenGrand,
	}
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{uid: existing}}
	client := &fakeStylistClient{
		stylist: testStylist(),
		services: map[int64]*stylistservice.Service{
			11: {ID: 11, StylistID: 1, Name: "Styling", Price: dec("40.00"), DurationMinutes: 30},
		},
	}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:               1,
		Services:                []RequestedService{{ServiceID: 10}, {ServiceID: 11}},
		StartTime:               monday,
		IncludeTax:              true,
		IncludeCardFee:          true,
		ExistingAppointmentUUID: &uid,
	})
	require.NoError(t, err)

	// 60 + 40 = 100, налог 8, комиссия 3.24 поверх налога
	assert.True(t, resp.TotalBeforeTax.Equal(dec("100.00")), "got %s", resp.TotalBeforeTax)
	assert.True(t, resp.GrandTotal.Equal(dec("111.24")), "got %s", resp.GrandTotal)
}

func TestExecute_AdditionPricedAtRegularPrice(t *testing.T) {
	uid := uuid.New()
	existing := &domain.Appointment{
		ID:              1,
		UUID:            uid,
		StylistID:       1,
		StartTime:       monday,
		DurationMinutes: 60,
		Status:          domain.StatusNew,
		Services: []domain.AppointmentServiceLine{
			{ServiceID: 10, Name: "Haircut", RegularPrice: dec("40.00"), ClientPrice: dec("20.00"), DurationMinutes: 45, IsOriginal: true},
		},
	}
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{uid: existing}}
	// 100% скидка не должна затронуть добавленную услугу
	discounts := &fakeDiscountRepo{cfg: domain.DiscountConfig{WeekdayPercents: map[int]int{1: 100}}}
	client := &fakeStylistClient{
		stylist: testStylist(),
		services: map[int64]*stylistservice.Service{
			20: {ID: 20, StylistID: 1, Name: "Styling", Price: dec("25.00"), DurationMinutes: 30},
		},
	}
	uc := newTestUseCase(repo, discounts, client)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:               1,
		Services:                []RequestedService{{ServiceID: 10}, {ServiceID: 20}},
		StartTime:               monday,
		ExistingAppointmentUUID: &uid,
	})
	require.NoError(t, err)

	require.Len(t, resp.Services, 2)
	addition := resp.Services[1]
	assert.True(t, addition.ClientPrice.Equal(dec("25.00")), "got %s", addition.ClientPrice)
	assert.Equal(t, string(domain.DiscountNone), addition.AppliedDiscount)
	assert.False(t, addition.IsOriginal)
}

func TestExecute_PriceOverrideFlagsLine(t *testing.T) {
	uid := uuid.New()
	existing := &domain.Appointment{
		ID:              1,
		UUID:            uid,
		StylistID:       1,
		StartTime:       monday,
		DurationMinutes: 60,
		Status:          domain.StatusNew,
		Services: []domain.AppointmentServiceLine{
			{ServiceID: 10, Name: "Haircut", RegularPrice: dec("40.00"), ClientPrice: dec("40.00"), DurationMinutes: 45, IsOriginal: true},
		},
	}
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{uid: existing}}
	client := &fakeStylistClient{stylist: testStylist()}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	override := dec("35.00")
	resp, err := uc.Execute(context.Background(), &Request{
		StylistID:               1,
		Services:                []RequestedService{{ServiceID: 10, ClientPrice: &override}},
		StartTime:               monday,
		ExistingAppointmentUUID: &uid,
	})
	require.NoError(t, err)

	require.Len(t, resp.Services, 1)
	assert.True(t, resp.Services[0].ClientPrice.Equal(override))
	assert.True(t, resp.Services[0].IsPriceEdited)
}

func TestExecute_ConflictDetection(t *testing.T) {
	conflicting := &domain.Appointment{
		ID:              2,
		UUID:            uuid.New(),
		StylistID:       1,
		StartTime:       monday.Add(-30 * time.Minute),
		DurationMinutes: 60,
		Status:          domain.StatusNew,
	}
	repo := &fakeAppointmentRepo{
		appointments: map[uuid.UUID]*domain.Appointment{},
		dayList:      []*domain.Appointment{conflicting},
	}
	client := &fakeStylistClient{
		stylist: testStylist(),
		services: map[int64]*stylistservice.Service{
			10: {ID: 10, StylistID: 1, Name: "Haircut", Price: dec("40.00"), DurationMinutes: 45},
		},
	}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	// Запрошенное время попадает внутрь слота существующей записи
	resp, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: monday,
	})
	require.NoError(t, err)
	require.Len(t, resp.ConflictsWith, 1)
	assert.Equal(t, conflicting.UUID, resp.ConflictsWith[0].UUID)

	// Время сразу после конца слота конфликтом не считается
	resp, err = uc.Execute(context.Background(), &Request{
		StylistID: 1,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: monday.Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.Empty(t, resp.ConflictsWith)
}

func TestExecute_ConflictFromPreviousDaySlotOverMidnight(t *testing.T) {
	// Слот начинается накануне и пересекает полночь
	mondayMidnight := domain.DateOnly(monday)
	conflicting := &domain.Appointment{
		ID:              2,
		UUID:            uuid.New(),
		StylistID:       1,
		StartTime:       mondayMidnight.Add(-30 * time.Minute),
		DurationMinutes: 120,
		Status:          domain.StatusNew,
	}
	repo := &fakeAppointmentRepo{
		appointments: map[uuid.UUID]*domain.Appointment{},
		dayList:      []*domain.Appointment{conflicting},
	}
	client := &fakeStylistClient{
		stylist: testStylist(),
		services: map[int64]*stylistservice.Service{
			10: {ID: 10, StylistID: 1, Name: "Haircut", Price: dec("40.00"), DurationMinutes: 45},
		},
	}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: mondayMidnight.Add(15 * time.Minute),
	})
	require.NoError(t, err)
	require.Len(t, resp.ConflictsWith, 1)
	assert.Equal(t, conflicting.UUID, resp.ConflictsWith[0].UUID)
}

func TestExecute_ForeignAppointmentIsNotFound(t *testing.T) {
	uid := uuid.New()
	foreign := &domain.Appointment{ID: 3, UUID: uid, StylistID: 99, StartTime: monday, DurationMinutes: 60, Status: domain.StatusNew}
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{uid: foreign}}
	client := &fakeStylistClient{stylist: testStylist()}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	_, err := uc.Execute(context.Background(), &Request{
		StylistID:               1,
		Services:                []RequestedService{{ServiceID: 10}},
		StartTime:               monday,
		ExistingAppointmentUUID: &uid,
	})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_UnknownServiceFails(t *testing.T) {
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{}}
	client := &fakeStylistClient{stylist: testStylist(), services: map[int64]*stylistservice.Service{}}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	_, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		Services:  []RequestedService{{ServiceID: 777}},
		StartTime: monday,
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_SaturatedDayReported(t *testing.T) {
	// Суббота недоступна в расписании - день считается полностью занятым
	saturday := time.Date(2025, 10, 18, 12, 0, 0, 0, time.UTC)
	repo := &fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{}}
	client := &fakeStylistClient{
		stylist: testStylist(),
		services: map[int64]*stylistservice.Service{
			10: {ID: 10, StylistID: 1, Name: "Haircut", Price: dec("40.00"), DurationMinutes: 45},
		},
	}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: saturday,
	})
	require.NoError(t, err)
	assert.True(t, resp.Saturated)
	assert.Equal(t, domain.SaturatedLoadRatio, resp.LoadRatio)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(
		&fakeAppointmentRepo{appointments: map[uuid.UUID]*domain.Appointment{}},
		&fakeDiscountRepo{},
		&fakeStylistClient{stylist: testStylist()},
	)

	tests := []struct {
		name string
		req  *Request
	}{
		{"no stylist", &Request{Services: []RequestedService{{ServiceID: 1}}, StartTime: monday}},
		{"no services", &Request{StylistID: 1, StartTime: monday}},
		{"zero start time", &Request{StylistID: 1, Services: []RequestedService{{ServiceID: 1}}}},
		{"duplicate services", &Request{StylistID: 1, StartTime: monday, Services: []RequestedService{{ServiceID: 1}, {ServiceID: 1}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
