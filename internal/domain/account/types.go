package account

import "time"

// Roles.
const (
	RoleFarmer = "farmer"
	RoleAdmin  = "admin"
)

// Account states.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Config drives authentication behavior.
type Config struct {
	Secret          string
	TokenTTL        time.Duration
	RefreshTokenTTL time.Duration
	Admin           AdminSeed
}

// AdminSeed describes the administrator created at startup when absent.
type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// User represents a persisted account.
type User struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Phone        string     `json:"phone"`
	Role         string     `json:"role"`
	Status       string     `json:"status"`
	Village      string     `json:"village"`
	District     string     `json:"district"`
	PasswordHash string     `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`
}

// UserFilter narrows admin user listings.
type UserFilter struct {
	Search string
	Role   string
}

// RegisterRequest captures the registration payload.
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// LoginRequest captures login details. Identifier is an email or phone number.
type LoginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
	Role       string `json:"role"`
}

// LoginResponse returns the signed tokens.
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         UserView `json:"user"`
}

// UserView trims sensitive fields.
type UserView struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Village     string     `json:"village"`
	District    string     `json:"district"`
	CreatedAt   time.Time  `json:"createdAt"`
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty"`
}

// ProfileUpdate carries editable profile fields.
type ProfileUpdate struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Village  string `json:"village"`
	District string `json:"district"`
}

// PasswordChange carries a password change request.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Stats summarizes the user base for the admin dashboard.
type Stats struct {
	TotalUsers    int `json:"totalUsers"`
	ActiveFarmers int `json:"activeFarmers"`
	Admins        int `json:"admins"`
	Inactive      int `json:"inactive"`
}

// Claims are extracted from the JWT token.
type Claims struct {
	UserID    int64
	Email     string
	Role      string
	TokenType string
	ExpiresAt time.Time
}

// RefreshRequest encapsulates refresh token payload.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}
