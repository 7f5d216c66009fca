package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

type fakeRepo struct {
	apt       *domain.Appointment
	list      []*domain.Appointment
	setStatus *domain.AppointmentStatus
	setActor  int64
	deletedID int64
}

func (f *fakeRepo) GetByUUID(_ context.Context, uid uuid.UUID) (*domain.Appointment, error) {
	if f.apt == nil || f.apt.UUID != uid {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return f.apt, nil
}

func (f *fakeRepo) GetByStylistWithFilter(_ context.Context, _ domain.StylistAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.list, nil
}

func (f *fakeRepo) SetStatus(_ context.Context, _ int64, status domain.AppointmentStatus, actor int64, _ time.Time) error {
	f.setStatus = &status
	f.setActor = actor
	return nil
}

func (f *fakeRepo) SoftDelete(_ context.Context, appointmentID int64, _ time.Time) error {
	f.deletedID = appointmentID
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

func newAppointment(status domain.AppointmentStatus, clientID *int64) *domain.Appointment {
	return &domain.Appointment{
		ID:              1,
		UUID:            uuid.New(),
		StylistID:       1,
		ClientID:        clientID,
		StartTime:       time.Date(2025, 10, 13, 12, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
		Status:          status,
	}
}

func newTestService(repo *fakeRepo) *Service {
	return NewService(repo, passthroughTxManager{}, nopLogger{})
}

func TestCancel_ByClientSetsClientStatus(t *testing.T) {
	apt := newAppointment(domain.StatusNew, ptr.Ptr(int64(7)))
	repo := &fakeRepo{apt: apt}
	svc := newTestService(repo)

	err := svc.Cancel(context.Background(), apt.UUID, &models.CancelAppointmentRequest{UserID: 7})
	require.NoError(t, err)

	require.NotNil(t, repo.setStatus)
	assert.Equal(t, domain.StatusCancelledByClient, *repo.setStatus)
	assert.Equal(t, int64(7), repo.setActor)
}

func TestCancel_ByStylistSetsStylistStatus(t *testing.T) {
	apt := newAppointment(domain.StatusNew, ptr.Ptr(int64(7)))
	repo := &fakeRepo{apt: apt}
	svc := newTestService(repo)

	err := svc.Cancel(context.Background(), apt.UUID, &models.CancelAppointmentRequest{UserID: 1})
	require.NoError(t, err)

	require.NotNil(t, repo.setStatus)
	assert.Equal(t, domain.StatusCancelledByStylist, *repo.setStatus)
}

func TestCancel_WalkInAlwaysStylistStatus(t *testing.T) {
	apt := newAppointment(domain.StatusNew, nil)
	repo := &fakeRepo{apt: apt}
	svc := newTestService(repo)

	err := svc.Cancel(context.Background(), apt.UUID, &models.CancelAppointmentRequest{UserID: 5})
	require.NoError(t, err)

	require.NotNil(t, repo.setStatus)
	assert.Equal(t, domain.StatusCancelledByStylist, *repo.setStatus)
}

func TestCancel_TerminalStatusRejected(t *testing.T) {
	tests := []struct {
		name   string
		status domain.AppointmentStatus
	}{
		{"checked out", domain.StatusCheckedOut},
		{"no show", domain.StatusNoShow},
		{"already cancelled", domain.StatusCancelledByClient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apt := newAppointment(tt.status, ptr.Ptr(int64(7)))
			repo := &fakeRepo{apt: apt}
			svc := newTestService(repo)

			err := svc.Cancel(context.Background(), apt.UUID, &models.CancelAppointmentRequest{UserID: 7})
			assert.ErrorIs(t, err, ErrCannotCancel)
			assert.Nil(t, repo.setStatus)
		})
	}
}

func TestUpdateStatus_NoShowFromNew(t *testing.T) {
	apt := newAppointment(domain.StatusNew, ptr.Ptr(int64(7)))
	repo := &fakeRepo{apt: apt}
	svc := newTestService(repo)

	err := svc.UpdateStatus(context.Background(), apt.UUID, &models.UpdateStatusRequest{UserID: 1, Status: "no_show"})
	require.NoError(t, err)

	require.NotNil(t, repo.setStatus)
	assert.Equal(t, domain.StatusNoShow, *repo.setStatus)
}

func TestUpdateStatus_TransitionFromTerminalRejected(t *testing.T) {
	apt := newAppointment(domain.StatusCheckedOut, ptr.Ptr(int64(7)))
	repo := &fakeRepo{apt: apt}
	svc := newTestService(repo)

	err := svc.UpdateStatus(context.Background(), apt.UUID, &models.UpdateStatusRequest{UserID: 1, Status: "no_show"})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestUpdateStatus_CheckedOutRequiresCheckoutFlow(t *testing.T) {
	apt := newAppointment(domain.StatusNew, ptr.Ptr(int64(7)))
	repo := &fakeRepo{apt: apt}
	svc := newTestService(repo)

	err := svc.UpdateStatus(context.Background(), apt.UUID, &models.UpdateStatusRequest{UserID: 1, Status: "checked_out"})
	assert.ErrorIs(t, err, ErrCheckoutRequired)
	assert.Nil(t, repo.setStatus)
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	apt := newAppointment(domain.StatusNew, ptr.Ptr(int64(7)))
	repo := &fakeRepo{apt: apt}
	svc := newTestService(repo)

	err := svc.UpdateStatus(context.Background(), apt.UUID, &models.UpdateStatusRequest{UserID: 1, Status: "postponed"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestGetByUUID_NotFound(t *testing.T) {
	svc := newTestService(&fakeRepo{})

	_, err := svc.GetByUUID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetStylistAppointments_MapsDomainList(t *testing.T) {
	apt := newAppointment(domain.StatusNew, ptr.Ptr(int64(7)))
	repo := &fakeRepo{list: []*domain.Appointment{apt}}
	svc := newTestService(repo)

	resp, err := svc.GetStylistAppointments(context.Background(), &models.GetStylistAppointmentsRequest{StylistID: 1})
	require.NoError(t, err)

	require.Equal(t, 1, resp.Total)
	assert.Equal(t, apt.UUID, resp.Appointments[0].UUID)
	assert.Equal(t, string(domain.StatusNew), resp.Appointments[0].Status)
}

func TestDelete_TerminalAppointmentDeleted(t *testing.T) {
	apt := newAppointment(domain.StatusCancelledByClient, ptr.Ptr(int64(7)))
	repo := &fakeRepo{apt: apt}
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), apt.UUID, 1)
	require.NoError(t, err)
	assert.Equal(t, apt.ID, repo.deletedID)
}

func TestDelete_ActiveAppointmentRejected(t *testing.T) {
	apt := newAppointment(domain.StatusNew, ptr.Ptr(int64(7)))
	repo := &fakeRepo{apt: apt}
	svc := newTestService(repo)

	err := svc.Delete(context.Background(), apt.UUID, 1)
	assert.ErrorIs(t, err, ErrCannotDelete)
	assert.Zero(t, repo.deletedID)
}
