package list_appointments

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/appointments/models"
)

// ToServiceRequest собирает запрос сервиса из query параметров.
// from и to принимаются в RFC3339, фильтры providerId и customerId опциональны
func ToServiceRequest(identity domain.StaffIdentity, query url.Values) (*models.ListRequest, error) {
	from, err := time.Parse(time.RFC3339, query.Get("from"))
	if err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}

	to, err := time.Parse(time.RFC3339, query.Get("to"))
	if err != nil {
		return nil, fmt.Errorf("to: %w", err)
	}

	req := &models.ListRequest{
		Identity: identity,
		From:     from,
		To:       to,
	}

	if req.ProviderID, err = optionalID(query, "providerId"); err != nil {
		return nil, err
	}
	if req.CustomerID, err = optionalID(query, "customerId"); err != nil {
		return nil, err
	}

	if raw := query.Get("includeCancelled"); raw != "" {
		if req.IncludeCancelled, err = strconv.ParseBool(raw); err != nil {
			return nil, fmt.Errorf("includeCancelled: %w", err)
		}
	}

	return req, nil
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
