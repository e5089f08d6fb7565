package portalauth

// verifyRequest тело запроса проверки сессии портала
type verifyRequest struct {
	TenantToken  string `json:"tenant_token"`
	SessionToken string `json:"session_token"`
}

// verifyResponse ответ сервиса авторизации портала
type verifyResponse struct {
	CustomerID int64 `json:"customer_id"`
	TenantID   int64 `json:"tenant_id"`
}
