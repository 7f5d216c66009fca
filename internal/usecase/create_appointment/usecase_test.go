package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/integrations/stylistservice"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeAppointmentRepo struct {
	dayList   []*domain.Appointment
	lastVisit *time.Time
	created   *domain.Appointment
}

func (f *fakeAppointmentRepo) Create(_ context.Context, apt *domain.Appointment) (*domain.Appointment, error) {
	apt.ID = 1
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt
	f.created = apt
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

type passthroughTxManager struct{}

func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time {
	return p.now
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

// Понедельник в рабочем расписании стилиста
var monday = time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC)

func newTestUseCase(repo *fakeAppointmentRepo, discounts *fakeDiscountRepo, client *fakeStylistClient) *UseCase {
	uc := NewUseCase(repo, discounts, client, passthroughTxManager{}, nopLogger{})
	uc.timeProvider = &fixedTimeProvider{now: monday.Add(-24 * time.Hour)}
	return uc
}

func haircutCatalog() map[int64]*stylistservice.Service {
	return map[int64]*stylistservice.Service{
		10: {ID: 10, StylistID: 1, Name: "Haircut", Price: dec("40.00"), DurationMinutes: 45},
	}
}

func TestExecute_CreatesAppointmentWithDiscountedLines(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	discounts := &fakeDiscountRepo{cfg: domain.DiscountConfig{WeekdayPercents: map[int]int{1: 50}}}
	client := &fakeStylistClient{stylist: testStylist(), services: haircutCatalog()}
	uc := newTestUseCase(repo, discounts, client)

	resp, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		ClientID:  ptr.Ptr(int64(7)),
		CreatedBy: 7,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: monday,
	})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusNew), resp.Status)
	assert.NotEqual(t, uuid.Nil, resp.UUID)
	assert.Equal(t, 60, resp.DurationMinutes)
	require.Len(t, resp.Services, 1)
	assert.True(t, resp.Services[0].ClientPrice.Equal(dec("20")), "got %s", resp.Services[0].ClientPrice)

	require.NotNil(t, repo.created)
	assert.Equal(t, domain.StatusNew, repo.created.Status)
	assert.True(t, repo.created.Services[0].IsOriginal)
}

func TestExecute_RejectsOverlappingSlot(t *testing.T) {
	existing := &domain.Appointment{
		ID:              2,
		UUID:            uuid.New(),
		StylistID:       1,
		StartTime:       monday.Add(-30 * time.Minute),
		DurationMinutes: 60,
		Status:          domain.StatusNew,
	}
	repo := &fakeAppointmentRepo{dayList: []*domain.Appointment{existing}}
	client := &fakeStylistClient{stylist: testStylist(), services: haircutCatalog()}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	_, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		CreatedBy: 7,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: monday,
	})
	assert.ErrorIs(t, err, ErrTimeSlotTaken)
	assert.Nil(t, repo.created)
}

func TestExecute_RejectsSlotOverlappingMidnightFromPreviousDay(t *testing.T) {
	// Слот начинается накануне и пересекает полночь
	mondayMidnight := domain.DateOnly(monday)
	existing := &domain.Appointment{
		ID:              2,
		UUID:            uuid.New(),
		StylistID:       1,
		StartTime:       mondayMidnight.Add(-30 * time.Minute),
		DurationMinutes: 120,
		Status:          domain.StatusNew,
	}
	repo := &fakeAppointmentRepo{dayList: []*domain.Appointment{existing}}
	client := &fakeStylistClient{stylist: testStylist(), services: haircutCatalog()}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	_, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		CreatedBy: 7,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: mondayMidnight.Add(15 * time.Minute),
	})
	assert.ErrorIs(t, err, ErrTimeSlotTaken)
	assert.Nil(t, repo.created)
}

func TestExecute_RejectsFullyBookedDay(t *testing.T) {
	// 8 записей по 60 минут закрывают окно 10:00-18:00 целиком
	dayList := make([]*domain.Appointment, 0, 8)
	for i := 0; i < 8; i++ {
		dayList = append(dayList, &domain.Appointment{
			ID:              int64(i + 10),
			UUID:            uuid.New(),
			StylistID:       1,
			StartTime:       domain.DateOnly(monday).Add(time.Duration(10+i) * time.Hour),
			DurationMinutes: 60,
			Status:          domain.StatusNew,
		})
	}
	repo := &fakeAppointmentRepo{dayList: dayList}
	client := &fakeStylistClient{stylist: testStylist(), services: haircutCatalog()}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	_, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		CreatedBy: 7,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: monday.Add(5 * time.Hour), // 17:00, свободных пересечений нет
	})
	assert.ErrorIs(t, err, ErrDayFullyBooked)
}

func TestExecute_CancelledAppointmentsDoNotBlock(t *testing.T) {
	// Отменённые записи не возвращаются репозиторием, пустой день свободен
	repo := &fakeAppointmentRepo{}
	client := &fakeStylistClient{stylist: testStylist(), services: haircutCatalog()}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	_, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		CreatedBy: 7,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: monday,
	})
	assert.NoError(t, err)
}

func TestExecute_PriceOverrideIsFlagged(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	client := &fakeStylistClient{stylist: testStylist(), services: haircutCatalog()}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	override := dec("30.00")
	resp, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		CreatedBy: 7,
		Services:  []RequestedService{{ServiceID: 10, ClientPrice: &override}},
		StartTime: monday,
	})
	require.NoError(t, err)

	require.Len(t, resp.Services, 1)
	assert.True(t, resp.Services[0].ClientPrice.Equal(override))
	assert.True(t, resp.Services[0].IsPriceEdited)
}

func TestExecute_StartTimeInPast(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	client := &fakeStylistClient{stylist: testStylist(), services: haircutCatalog()}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)
	uc.timeProvider = &fixedTimeProvider{now: monday.Add(time.Hour)}

	_, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		CreatedBy: 7,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: monday,
	})
	assert.ErrorIs(t, err, ErrStartTimeInPast)
}

func TestExecute_UnknownService(t *testing.T) {
	repo := &fakeAppointmentRepo{}
	client := &fakeStylistClient{stylist: testStylist(), services: map[int64]*stylistservice.Service{}}
	uc := newTestUseCase(repo, &fakeDiscountRepo{}, client)

	_, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		CreatedBy: 7,
		Services:  []RequestedService{{ServiceID: 777}},
		StartTime: monday,
	})
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_UnknownStylist(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{}, &fakeDiscountRepo{}, &fakeStylistClient{})

	_, err := uc.Execute(context.Background(), &Request{
		StylistID: 1,
		CreatedBy: 7,
		Services:  []RequestedService{{ServiceID: 10}},
		StartTime: monday,
	})
	assert.ErrorIs(t, err, ErrStylistNotFound)
}
