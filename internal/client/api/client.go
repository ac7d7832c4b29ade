package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/iudanet/folio/pkg/api"
)

// sessionCookie имя cookie сессии администратора на сервере
const sessionCookie = "admin_token"

// ErrNoSession сервер принял вход, но не выставил cookie сессии
var ErrNoSession = errors.New("session cookie not set")

// StatusError ответ сервера с кодом вне 2xx
type StatusError struct {
	Message string
	Code    int
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Code)
	}
	return fmt.Sprintf("server error (%d): %s", e.Code, e.Message)
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			// Охранник отвечает редиректом на /login; редирект не выполняем
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Health проверяет доступность сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if _, err := c.doRequest(ctx, http.MethodGet, "/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// Login выполняет вход администратора и возвращает токен сессии
func (c *Client) Login(ctx context.Context, password string) (string, error) {
	cookies, err := c.doRequest(ctx, http.MethodPost, "/api/auth", "", api.LoginRequest{Password: password}, nil)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	for _, ck := range cookies {
		if ck.Name == sessionCookie && ck.Value != "" {
			return ck.Value, nil
		}
	}
	return "", ErrNoSession
}

// Logout отзывает токен сессии
func (c *Client) Logout(ctx context.Context, token string) error {
	if _, err := c.doRequest(ctx, http.MethodDelete, "/api/auth", token, nil, nil); err != nil {
		return fmt.Errorf("logout request failed: %w", err)
	}
	return nil
}

// AuthStatus сообщает, действителен ли токен
func (c *Client) AuthStatus(ctx context.Context, token string) (bool, error) {
	var resp api.AuthStatus
	if _, err := c.doRequest(ctx, http.MethodGet, "/api/auth", token, nil, &resp); err != nil {
		var statusErr *StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusUnauthorized {
			return false, nil
		}
		return false, fmt.Errorf("auth status request failed: %w", err)
	}
	return resp.Authenticated, nil
}

// doRequest выполняет HTTP запрос; непустой token передается cookie сессии
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) ([]*http.Cookie, error) {
	url := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	// Читаем тело ответа
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Проверяем статус код
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		statusErr := &StatusError{Code: resp.StatusCode}
		var errResp api.ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil {
			statusErr.Message = errResp.Error
		}
		return nil, statusErr
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return resp.Cookies(), nil
}
