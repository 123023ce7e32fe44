package dto

// CooldownResponse answers the email cooldown check.
type CooldownResponse struct {
	Email      string `json:"email"`
	InCooldown bool   `json:"in_cooldown"`
}

// SignupCheckRequest is validated before the client registers with the auth provider.
type SignupCheckRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SignupCheckResponse reports that registration may proceed.
type SignupCheckResponse struct {
	Email   string `json:"email"`
	Allowed bool   `json:"allowed"`
}

// AccountDeletionResponse mirrors the deletion procedure result.
type AccountDeletionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	UserID  string `json:"user_id"`
}
