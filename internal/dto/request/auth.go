package request

// LoginRequest is checked by the auth service rather than the validator so
// that a missing field gets the login-specific error body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}
