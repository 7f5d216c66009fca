package checkout_appointment

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
	"github.com/m04kA/SMC-AppointmentService/internal/pricing"
)

type fakeRepo struct {
	apt *domain.Appointment

	lockErr      error
	frozenBefore *decimal.Decimal
	frozenTax    *decimal.Decimal
	frozenFee    *decimal.Decimal
	frozenGrand  *decimal.Decimal
	setStatus    *domain.AppointmentStatus
	setActor     int64
}

func (f *fakeRepo) GetByUUID(_ context.Context, uid uuid.UUID) (*domain.Appointment, error) {
	if f.apt == nil || f.apt.UUID != uid {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return f.apt, nil
}

func (f *fakeRepo) LockForCheckout(_ context.Context, id int64) (*domain.Appointment, error) {
	if f.lockErr != nil {
		return nil, f.lockErr
	}
	if f.apt == nil || f.apt.ID != id {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return f.apt, nil
}

func (f *fakeRepo) SetStatus(_ context.Context, _ int64, status domain.AppointmentStatus, actor int64, _ time.Time) error {
	f.setStatus = &status
	f.setActor = actor
	return nil
}

func (f *fakeRepo) FreezeTotals(_ context.Context, _ int64, beforeTax, tax, fee, grand decimal.Decimal) error {
	f.frozenBefore = &beforeTax
	f.frozenTax = &tax
	f.frozenFee = &fee
	f.frozenGrand = &grand
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

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func testSettings() pricing.Settings {
	return pricing.Settings{TaxRatePercent: dec("8"), CardFeePercent: dec("3")}
}

func newAppointment(status domain.AppointmentStatus) *domain.Appointment {
	return &domain.Appointment{
		ID:              1,
		UUID:            uuid.New(),
		StylistID:       1,
		StartTime:       time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          status,
		IncludeTax:      true,
		IncludeCardFee:  true,
		Services: []domain.AppointmentServiceLine{
			{ServiceID: 10, Name: "Haircut", RegularPrice: dec("120.00"), ClientPrice: dec("60.00"), IsOriginal: true},
			{ServiceID: 20, Name: "Styling", RegularPrice: dec("40.00"), ClientPrice: dec("40.00"), IsOriginal: true},
		},
	}
}

func TestExecute_FreezesTotalsAndTransitions(t *testing.T) {
	apt := newAppointment(domain.StatusNew)
	repo := &fakeRepo{apt: apt}
	uc := NewUseCase(repo, passthroughTxManager{}, testSettings(), nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentUUID: apt.UUID, Actor: 5})
	require.NoError(t, err)

	// 100 до налога, 8% налог, 3% комиссия от 108
	assert.True(t, resp.TotalBeforeTax.Equal(dec("100")), "got %s", resp.TotalBeforeTax)
	assert.True(t, resp.TotalTax.Equal(dec("8")), "got %s", resp.TotalTax)
	assert.True(t, resp.TotalCardFee.Equal(dec("3.24")), "got %s", resp.TotalCardFee)
	assert.True(t, resp.GrandTotal.Equal(dec("111.24")), "got %s", resp.GrandTotal)
	assert.Equal(t, string(domain.StatusCheckedOut), resp.Status)

	require.NotNil(t, repo.setStatus)
	assert.Equal(t, domain.StatusCheckedOut, *repo.setStatus)
	assert.Equal(t, int64(5), repo.setActor)
	require.NotNil(t, repo.frozenGrand)
	assert.True(t, repo.frozenGrand.Equal(dec("111.24")))
}

func TestExecute_AlreadyCheckedOut(t *testing.T) {
	apt := newAppointment(domain.StatusCheckedOut)
	repo := &fakeRepo{apt: apt}
	uc := NewUseCase(repo, passthroughTxManager{}, testSettings(), nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentUUID: apt.UUID, Actor: 5})
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
	assert.Nil(t, repo.setStatus)
	assert.Nil(t, repo.frozenGrand)
}

func TestExecute_InvalidTransitionFromCancelled(t *testing.T) {
	apt := newAppointment(domain.StatusCancelledByClient)
	repo := &fakeRepo{apt: apt}
	uc := NewUseCase(repo, passthroughTxManager{}, testSettings(), nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentUUID: apt.UUID, Actor: 5})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestExecute_ConcurrentLockTreatedAsCheckedOut(t *testing.T) {
	apt := newAppointment(domain.StatusNew)
	repo := &fakeRepo{apt: apt, lockErr: appointmentRepo.ErrAppointmentNotFound}
	uc := NewUseCase(repo, passthroughTxManager{}, testSettings(), nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentUUID: apt.UUID, Actor: 5})
	assert.ErrorIs(t, err, ErrAlreadyCheckedOut)
}

func TestExecute_NotFound(t *testing.T) {
	repo := &fakeRepo{}
	uc := NewUseCase(repo, passthroughTxManager{}, testSettings(), nopLogger{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentUUID: uuid.New(), Actor: 5})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_TaxExcludedFromGrandTotal(t *testing.T) {
	apt := newAppointment(domain.StatusNew)
	apt.IncludeTax = false
	apt.IncludeCardFee = false
	repo := &fakeRepo{apt: apt}
	uc := NewUseCase(repo, passthroughTxManager{}, testSettings(), nopLogger{})

	resp, err := uc.Execute(context.Background(), &Request{AppointmentUUID: apt.UUID, Actor: 5})
	require.NoError(t, err)

	// Суммы налога и комиссии рассчитываются всегда, но в итог не входят
	assert.True(t, resp.TotalTax.Equal(dec("8")))
	assert.True(t, resp.TotalCardFee.Equal(dec("3")))
	assert.True(t, resp.GrandTotal.Equal(dec("100")), "got %s", resp.GrandTotal)
}
