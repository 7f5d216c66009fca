package create_appointment

import (
	"fmt"
	"time"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request, now time.Time) error {
	if req.StylistID <= 0 {
		return fmt.Errorf("%w: stylistID must be positive", ErrInvalidInput)
	}

	if req.ClientID != nil && *req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.CreatedBy <= 0 {
		return fmt.Errorf("%w: createdBy must be positive", ErrInvalidInput)
	}

	if len(req.Services) == 0 {
		return fmt.Errorf("%w: at least one service is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if req.StartTime.Before(now) {
		return ErrStartTimeInPast
	}

	seen := make(map[int64]bool, len(req.Services))
	for _, svc := range req.Services {
		if svc.ServiceID <= 0 {
			return fmt.Errorf("%w: serviceID must be positive", ErrInvalidInput)
		}
		if seen[svc.ServiceID] {
			return fmt.Errorf("%w: duplicate serviceID %d", ErrInvalidInput, svc.ServiceID)
		}
		seen[svc.ServiceID] = true

		if svc.ClientPrice != nil && svc.ClientPrice.IsNegative() {
			return fmt.Errorf("%w: clientPrice must not be negative", ErrInvalidInput)
		}
	}

	return nil
}
