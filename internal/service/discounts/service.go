package discounts

import (
	"context"
	"fmt"

	"github.com/m04kA/SMC-AppointmentService/internal/service/discounts/models"
)

// Service сервис для работы с конфигурацией скидок стилиста
type Service struct {
	discountRepo DiscountRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса скидок
func NewService(
	discountRepo DiscountRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		discountRepo: discountRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetConfig получает конфигурацию скидок стилиста
// Ненастроенная конфигурация возвращается с нулевыми процентами,
// это не ошибка: запись клиентов не должна блокироваться пробелами настройки
func (s *Service) GetConfig(ctx context.Context, stylistID int64) (*models.DiscountConfigResponse, error) {
	s.logger.Info("GetConfig: fetching discount config for stylist=%d", stylistID)

	if stylistID <= 0 {
		return nil, fmt.Errorf("%w: stylistID must be positive", ErrInvalidInput)
	}

	cfg, err := s.discountRepo.GetConfig(ctx, stylistID)
	if err != nil {
		s.logger.Error("GetConfig: repository error for stylist=%d: %v", stylistID, err)
		return nil, fmt.Errorf("%w: GetConfig - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainConfig(cfg), nil
}

// UpdateConfig полностью заменяет конфигурацию скидок стилиста
// Замена трёх наборов правил выполняется в одной транзакции
func (s *Service) UpdateConfig(ctx context.Context, stylistID int64, req *models.UpdateDiscountConfigRequest) (*models.DiscountConfigResponse, error) {
	s.logger.Info("UpdateConfig: updating discount config for stylist=%d", stylistID)

	if stylistID <= 0 {
		return nil, fmt.Errorf("%w: stylistID must be positive", ErrInvalidInput)
	}

	if err := req.Validate(); err != nil {
		s.logger.Warn("UpdateConfig: validation failed for stylist=%d: %v", stylistID, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	cfg := req.ToDomainConfig()

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return s.discountRepo.ReplaceConfig(txCtx, stylistID, cfg)
	})
	if err != nil {
		s.logger.Error("UpdateConfig: repository error for stylist=%d: %v", stylistID, err)
		return nil, fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateConfig: discount config updated for stylist=%d", stylistID)
	return models.FromDomainConfig(cfg), nil
}
