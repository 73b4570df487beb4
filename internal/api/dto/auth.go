package dto

import "time"

type LoginRequest struct {
	Username string `json:"username" validate:"required,max=150"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

type LoginAttemptResponse struct {
	Username  string    `json:"username"`
	IPAddress string    `json:"ip_address"`
	Success   bool      `json:"success"`
	Timestamp time.Time `json:"timestamp"`
}

type RecentLoginsResponse struct {
	Attempts      []LoginAttemptResponse `json:"attempts"`
	FailureCounts map[string]int64       `json:"failure_counts"`
}

type ResetPasswordResponse struct {
	Username          string `json:"username"`
	TemporaryPassword string `json:"temporary_password"`
}

type ToggleActiveResponse struct {
	Username string `json:"username"`
	IsActive bool   `json:"is_active"`
}

type ClearIPRequest struct {
	IPAddress string `json:"ip_address" validate:"required,ip"`
}

type RoleResponse struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Permissions map[string]bool `json:"permissions"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ListRolesResponse struct {
	Roles []RoleResponse `json:"roles"`
}
