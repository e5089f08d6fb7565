package get_available_slots

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	Date            string             `json:"date"`
	ProviderID      int64              `json:"providerId"`
	DurationMinutes int                `json:"durationMinutes"`
	Slots           []types.TimeString `json:"slots"`
}

// ToUseCaseRequest собирает запрос use case из query параметров.
// Некорректное значение любого параметра возвращает ошибку, а не нулевое значение
func ToUseCaseRequest(identity domain.StaffIdentity, providerID int64, query url.Values) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, query.Get("date"))
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}

	serviceID, err := optionalID(query, "serviceId")
	if err != nil {
		return nil, err
	}

	excludeID, err := optionalID(query, "excludeAppointmentId")
	if err != nil {
		return nil, err
	}

	duration := 0
	if raw := query.Get("durationMinutes"); raw != "" {
		duration, err = strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("durationMinutes: %w", err)
		}
	}

	return &getAvailableSlots.Request{
		TenantID:               identity.TenantID,
		ProviderID:             providerID,
		ServiceID:              serviceID,
		Date:                   date,
		ServiceDurationMinutes: duration,
		ExcludeAppointmentID:   excludeID,
		Surface:                identity.Surface(),
	}, nil
}

func optionalID(query url.Values, name string) (*int64, error) {
	raw := query.Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &id, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	return &AvailableSlotsResponse{
		Date:            resp.Date.Format(domain.DateFormat),
		ProviderID:      resp.ProviderID,
		DurationMinutes: resp.DurationMinutes,
		Slots:           resp.Slots,
	}
}
