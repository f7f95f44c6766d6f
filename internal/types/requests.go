package types

// AuthRequest represents the request body for POST /auth
type AuthRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse represents the response body for POST /auth
type AuthResponse struct {
	Token string `json:"token"`
}

// ErrorResponse is the JSON body the API returns on failure
type ErrorResponse struct {
	Error string `json:"error"`
}
