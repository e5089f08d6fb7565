package portal

import "github.com/m04kA/SMC-SchedulingService/internal/domain"

// Session проверенная сессия клиента портала
type Session struct {
	Tenant   *domain.Tenant
	Customer domain.CustomerIdentity
}

// Offer услуга и мастер, выбранные клиентом в форме портала
type Offer struct {
	Service  *domain.Service
	Provider *domain.Employee
}
