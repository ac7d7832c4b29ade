package api

// LoginRequest представляет запрос на вход администратора
type LoginRequest struct {
	Password string `json:"password"`
}

// AuthStatus представляет ответ GET /api/auth
type AuthStatus struct {
	Authenticated bool `json:"authenticated"`
}

// SuccessResponse представляет ответ на операцию без данных
type SuccessResponse struct {
	Message string `json:"message,omitempty"` // дополнительное сообщение
	Success bool   `json:"success"`
}

// ErrorResponse представляет ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"` // описание ошибки
}

// HealthResponse представляет ответ health check
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
