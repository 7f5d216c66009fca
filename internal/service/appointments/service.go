package appointments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
)

// Service сервис для работы с записями
type Service struct {
	appointmentRepo AppointmentRepository
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	appointmentRepo AppointmentRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		appointmentRepo: appointmentRepo,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// GetByUUID получает запись по публичному UUID вместе со строками услуг
// и историей статусов
func (s *Service) GetByUUID(ctx context.Context, uid uuid.UUID) (*models.AppointmentResponse, error) {
	s.logger.Info("GetByUUID: fetching appointment uuid=%s", uid)

	apt, err := s.appointmentRepo.GetByUUID(ctx, uid)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("GetByUUID: appointment uuid=%s not found", uid)
			return nil, ErrAppointmentNotFound
		}
		s.logger.Error("GetByUUID: repository error for uuid=%s: %v", uid, err)
		return nil, fmt.Errorf("%w: GetByUUID - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainAppointment(apt), nil
}

// GetStylistAppointments получает записи стилиста с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включение отменённых записей
func (s *Service) GetStylistAppointments(ctx context.Context, req *models.GetStylistAppointmentsRequest) (*models.AppointmentListResponse, error) {
	s.logger.Info("GetStylistAppointments: stylist=%d, includeInactive=%v", req.StylistID, req.IncludeInactive)

	if req.StylistID <= 0 {
		return nil, fmt.Errorf("%w: stylistID must be positive", ErrInvalidInput)
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetStylistAppointments: invalid filter for stylist=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	appointments, err := s.appointmentRepo.GetByStylistWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetStylistAppointments: repository error for stylist=%d: %v", req.StylistID, err)
		return nil, fmt.Errorf("%w: GetStylistAppointments - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetStylistAppointments: fetched %d appointments for stylist=%d", len(appointments), req.StylistID)
	return models.FromDomainAppointmentList(appointments), nil
}

// Cancel отменяет запись
// Терминальный статус зависит от инициатора: клиент записи получает
// cancelled_by_client, любой другой пользователь - cancelled_by_stylist
func (s *Service) Cancel(ctx context.Context, uid uuid.UUID, req *models.CancelAppointmentRequest) error {
	s.logger.Info("Cancel: cancelling appointment uuid=%s by user=%d", uid, req.UserID)

	apt, err := s.appointmentRepo.GetByUUID(ctx, uid)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Cancel: appointment uuid=%s not found", uid)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Cancel: repository error for uuid=%s: %v", uid, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !apt.CanBeCancelled() {
		s.logger.Warn("Cancel: appointment uuid=%s cannot be cancelled, status=%s", uid, apt.Status)
		return ErrCannotCancel
	}

	cancelStatus := domain.StatusCancelledByStylist
	if apt.ClientID != nil && *apt.ClientID == req.UserID {
		cancelStatus = domain.StatusCancelledByClient
	}

	return s.setStatus(ctx, apt, cancelStatus, req.UserID)
}

// UpdateStatus переводит запись в новый статус
// Переход проверяется машиной состояний: разрешены только переходы
// из new в один из четырёх терминальных статусов
func (s *Service) UpdateStatus(ctx context.Context, uid uuid.UUID, req *models.UpdateStatusRequest) error {
	s.logger.Info("UpdateStatus: appointment uuid=%s to status=%s by user=%d", uid, req.Status, req.UserID)

	newStatus, err := models.ToDomainStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for uuid=%s", req.Status, uid)
		return fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	// Переход в checked_out обязан фиксировать итоговые суммы, это делает
	// только checkout-flow: здесь он запрещён, иначе запись закрылась бы без сумм
	if newStatus == domain.StatusCheckedOut {
		s.logger.Warn("UpdateStatus: checked_out requested for uuid=%s, redirecting to checkout flow", uid)
		return ErrCheckoutRequired
	}

	apt, err := s.appointmentRepo.GetByUUID(ctx, uid)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("UpdateStatus: appointment uuid=%s not found", uid)
			return ErrAppointmentNotFound
		}
		s.logger.Error("UpdateStatus: repository error for uuid=%s: %v", uid, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	return s.setStatus(ctx, apt, newStatus, req.UserID)
}

// setStatus выполняет переход статуса в транзакции
// Обновление кэшированного статуса и дозапись истории неразделимы
func (s *Service) setStatus(ctx context.Context, apt *domain.Appointment, newStatus domain.AppointmentStatus, actor int64) error {
	if !apt.CanTransitionTo(newStatus) {
		s.logger.Warn("setStatus: transition %s -> %s is not allowed for appointment id=%d",
			apt.Status, newStatus, apt.ID)
		return ErrInvalidTransition
	}

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return s.appointmentRepo.SetStatus(txCtx, apt.ID, newStatus, actor, s.timeProvider.Now())
	})
	if err != nil {
		s.logger.Error("setStatus: failed to set status for appointment id=%d: %v", apt.ID, err)
		return fmt.Errorf("%w: setStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("setStatus: appointment id=%d transitioned to %s by user=%d", apt.ID, newStatus, actor)
	return nil
}

// Delete мягко удаляет запись, убирая её из всех выборок
// Активные записи удалять нельзя: сначала отмена или checkout
func (s *Service) Delete(ctx context.Context, uid uuid.UUID, userID int64) error {
	s.logger.Info("Delete: deleting appointment uuid=%s by user=%d", uid, userID)

	apt, err := s.appointmentRepo.GetByUUID(ctx, uid)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			s.logger.Warn("Delete: appointment uuid=%s not found", uid)
			return ErrAppointmentNotFound
		}
		s.logger.Error("Delete: repository error for uuid=%s: %v", uid, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	if !apt.IsTerminal() {
		s.logger.Warn("Delete: appointment uuid=%s is still active, status=%s", uid, apt.Status)
		return ErrCannotDelete
	}

	if err := s.appointmentRepo.SoftDelete(ctx, apt.ID, s.timeProvider.Now()); err != nil {
		s.logger.Error("Delete: failed to delete appointment id=%d: %v", apt.ID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: appointment uuid=%s deleted by user=%d", uid, userID)
	return nil
}
