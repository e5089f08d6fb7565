package portalauth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// Client клиент внешнего сервиса авторизации клиентского портала
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Verify проверяет сессию клиента портала и возвращает его идентичность.
// Любой отказ сервиса (401/403/404) трактуется как ErrUnauthorized
func (c *Client) Verify(ctx context.Context, tenantToken, sessionToken string) (*domain.CustomerIdentity, error) {
	if tenantToken == "" || sessionToken == "" {
		return nil, ErrUnauthorized
	}

	body, err := json.Marshal(verifyRequest{TenantToken: tenantToken, SessionToken: sessionToken})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode request: %v", ErrInternal, err)
	}

	url := c.baseURL + "/internal/portal/sessions/verify"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("PortalAuth: verify request failed: %v", err)
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		c.log.Warn("PortalAuth: session rejected with status %d", resp.StatusCode)
		return nil, ErrUnauthorized
	default:
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.log.Error("PortalAuth: unexpected status %d: %s", resp.StatusCode, string(raw))
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	var identity verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}
	if identity.CustomerID <= 0 || identity.TenantID <= 0 {
		return nil, fmt.Errorf("%w: identity without customer or tenant", ErrInvalidResponse)
	}

	return &domain.CustomerIdentity{
		CustomerID: identity.CustomerID,
		TenantID:   identity.TenantID,
	}, nil
}
