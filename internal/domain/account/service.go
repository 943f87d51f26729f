package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

// Service exposes account workflows for farmers and administrators.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserView, error)
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	ValidateToken(ctx context.Context, token string) (Claims, error)
	Refresh(ctx context.Context, refreshToken string) (LoginResponse, error)
	Profile(ctx context.Context, userID int64) (UserView, error)
	UpdateProfile(ctx context.Context, userID int64, req ProfileUpdate) (UserView, error)
	ChangePassword(ctx context.Context, userID int64, req PasswordChange) error
	ListUsers(ctx context.Context, filter UserFilter) ([]UserView, error)
	SetStatus(ctx context.Context, userID int64, status string) (UserView, error)
	Stats(ctx context.Context) (Stats, error)
	EnsureAdmin(ctx context.Context) error
}

type service struct {
	cfg    Config
	repo   Repository
	logger *slog.Logger
	now    func() time.Time
}

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	maxNameLength    = 100
)

// NewService constructs a Service instance.
func NewService(cfg Config, repo Repository, logger *slog.Logger) Service {
	return &service{
		cfg:    cfg,
		repo:   repo,
		logger: logger.With("component", "account.service"),
		now:    time.Now,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserView, error) {
	name, err := normalizeName(req.Name)
	if err != nil {
		return UserView{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return UserView{}, apperrors.Wrap("invalid_input", "invalid email address", err)
	}
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return UserView{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	if err := validatePassword(req.Password); err != nil {
		return UserView{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	if req.Password != req.ConfirmPassword {
		return UserView{}, apperrors.Wrap("invalid_input", "password confirmation does not match", nil)
	}
	_, exists, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return UserView{}, apperrors.Wrap("auth_error", "failed to check user", err)
	}
	if exists {
		return UserView{}, apperrors.Wrap("email_exists", "email already registered", nil)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserView{}, apperrors.Wrap("auth_error", "failed to hash password", err)
	}
	user, err := s.repo.Create(ctx, User{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Role:         RoleFarmer,
		Status:       StatusActive,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return UserView{}, mapUniqueErr(err, "failed to create user")
	}
	s.logger.Info("user registered", "user", user.ID, "role", user.Role)
	return toView(user), nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	identifier := strings.TrimSpace(req.Identifier)
	if identifier == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "email or phone cannot be empty", nil)
	}
	if strings.TrimSpace(req.Password) == "" {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "password cannot be empty", nil)
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != "" && role != RoleFarmer && role != RoleAdmin {
		return LoginResponse{}, apperrors.Wrap("invalid_input", "role must be farmer or admin", nil)
	}

	user, found, err := s.lookup(ctx, identifier)
	if err != nil {
		return LoginResponse{}, apperrors.Wrap("auth_error", "failed to fetch user", err)
	}
	if !found {
		return LoginResponse{}, apperrors.Wrap("invalid_credentials", "invalid email/phone or password", nil)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return LoginResponse{}, apperrors.Wrap("invalid_credentials", "invalid email/phone or password", nil)
	}
	if role != "" && user.Role != role {
		return LoginResponse{}, apperrors.Wrap("role_mismatch", fmt.Sprintf("account is not registered as %s", role), nil)
	}
	if user.Status != StatusActive {
		return LoginResponse{}, apperrors.Wrap("account_inactive", "account is inactive", nil)
	}

	now := s.now().UTC()
	if err := s.repo.TouchLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("last login update failed", "user", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}
	return s.buildLoginResponse(user)
}

func (s *service) lookup(ctx context.Context, identifier string) (User, bool, error) {
	if strings.Contains(identifier, "@") {
		email, err := normalizeEmail(identifier)
		if err != nil {
			return User{}, false, nil
		}
		return s.repo.GetByEmail(ctx, email)
	}
	phone, err := normalizePhone(identifier)
	if err != nil || phone == "" {
		return User{}, false, nil
	}
	return s.repo.GetByPhone(ctx, phone)
}

func (s *service) ValidateToken(ctx context.Context, token string) (Claims, error) {
	if strings.TrimSpace(token) == "" {
		return Claims{}, apperrors.Wrap("invalid_token", "token missing", nil)
	}
	claims, err := s.parseToken(token)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != tokenTypeAccess {
		return Claims{}, apperrors.Wrap("invalid_token", "token type mismatch", nil)
	}
	return claims, nil
}

func (s *service) Profile(ctx context.Context, userID int64) (UserView, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	return toView(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, req ProfileUpdate) (UserView, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	name, err := normalizeName(req.Name)
	if err != nil {
		return UserView{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	phone, err := normalizePhone(req.Phone)
	if err != nil {
		return UserView{}, apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	user.Name = name
	user.Phone = phone
	user.Village = strings.TrimSpace(req.Village)
	user.District = strings.TrimSpace(req.District)

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return UserView{}, mapUniqueErr(err, "failed to update profile")
	}
	return toView(updated), nil
}

func (s *service) ChangePassword(ctx context.Context, userID int64, req PasswordChange) error {
	if req.CurrentPassword == "" {
		return apperrors.Wrap("invalid_input", "current password is required", nil)
	}
	if req.NewPassword == "" {
		return apperrors.Wrap("invalid_input", "new password is required", nil)
	}
	if err := validatePassword(req.NewPassword); err != nil {
		return apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	if req.NewPassword != req.ConfirmPassword {
		return apperrors.Wrap("invalid_input", "password confirmation does not match", nil)
	}
	if req.NewPassword == req.CurrentPassword {
		return apperrors.Wrap("invalid_input", "new password must differ from the current password", nil)
	}
	if strength := PasswordStrength(req.NewPassword); strength.Score < minPasswordStrength {
		return apperrors.Wrap("weak_password", fmt.Sprintf("password strength %s is too weak", strength.Label), nil)
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.CurrentPassword)); err != nil {
		return apperrors.Wrap("invalid_credentials", "current password is incorrect", nil)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap("auth_error", "failed to hash password", err)
	}
	user.PasswordHash = string(hashed)
	if _, err := s.repo.Update(ctx, user); err != nil {
		return apperrors.Wrap("auth_error", "failed to update password", err)
	}
	s.logger.Info("password changed", "user", user.ID)
	return nil
}

func (s *service) Refresh(ctx context.Context, refreshToken string) (LoginResponse, error) {
	claims, err := s.parseToken(refreshToken)
	if err != nil {
		return LoginResponse{}, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return LoginResponse{}, apperrors.Wrap("invalid_token", "token type mismatch", nil)
	}
	user, err := s.load(ctx, claims.UserID)
	if err != nil {
		return LoginResponse{}, err
	}
	if user.Status != StatusActive {
		return LoginResponse{}, apperrors.Wrap("account_inactive", "account is inactive", nil)
	}
	return s.buildLoginResponse(user)
}

func (s *service) load(ctx context.Context, userID int64) (User, error) {
	user, found, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return User{}, apperrors.Wrap("auth_error", "failed to load user", err)
	}
	if !found {
		return User{}, apperrors.Wrap("user_not_found", "user not found", nil)
	}
	return user, nil
}

func (s *service) buildLoginResponse(user User) (LoginResponse, error) {
	access, err := s.generateToken(user, tokenTypeAccess, s.cfg.TokenTTL)
	if err != nil {
		return LoginResponse{}, err
	}
	refresh, err := s.generateToken(user, tokenTypeRefresh, s.cfg.RefreshTokenTTL)
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{
		Token:        access,
		RefreshToken: refresh,
		User:         toView(user),
	}, nil
}

func (s *service) generateToken(user User, tokenType string, ttl time.Duration) (string, error) {
	now := s.now()
	claims := tokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", apperrors.Wrap("auth_error", "failed to sign token", err)
	}
	return signed, nil
}

func (s *service) parseToken(token string) (Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %s", t.Method.Alg())
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token validation failed", err)
	}
	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return Claims{}, apperrors.Wrap("invalid_token", "token invalid", nil)
	}
	if claims.ExpiresAt == nil {
		return Claims{}, apperrors.Wrap("invalid_token", "token missing expiry", nil)
	}
	return Claims{
		UserID:    claims.UserID,
		Email:     claims.Email,
		Role:      claims.Role,
		TokenType: claims.TokenType,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func toView(user User) UserView {
	return UserView{
		ID:          user.ID,
		Name:        user.Name,
		Email:       user.Email,
		Phone:       user.Phone,
		Role:        user.Role,
		Status:      user.Status,
		Village:     user.Village,
		District:    user.District,
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

func mapUniqueErr(err error, message string) error {
	switch {
	case errors.Is(err, ErrEmailExists):
		return apperrors.Wrap("email_exists", "email already registered", err)
	case errors.Is(err, ErrPhoneExists):
		return apperrors.Wrap("phone_exists", "phone number already registered", err)
	default:
		return apperrors.Wrap("auth_error", message, err)
	}
}

func normalizeEmail(raw string) (string, error) {
	email := strings.TrimSpace(strings.ToLower(raw))
	if email == "" {
		return "", errors.New("email cannot be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", err
	}
	return email, nil
}

func normalizeName(raw string) (string, error) {
	name := strings.Join(strings.Fields(raw), " ")
	if name == "" {
		return "", errors.New("name cannot be empty")
	}
	if len([]rune(name)) > maxNameLength {
		return "", fmt.Errorf("name cannot exceed %d characters", maxNameLength)
	}
	return name, nil
}

// normalizePhone strips separators and rewrites +62 to the local 0 prefix.
// An empty input is allowed.
func normalizePhone(raw string) (string, error) {
	phone := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(strings.TrimSpace(raw))
	if phone == "" {
		return "", nil
	}
	if strings.HasPrefix(phone, "+62") {
		phone = "0" + phone[3:]
	}
	if len(phone) < 9 || len(phone) > 15 {
		return "", errors.New("phone number must have 9 to 15 digits")
	}
	for _, r := range phone {
		if r < '0' || r > '9' {
			return "", errors.New("phone number must contain only digits")
		}
	}
	return phone, nil
}

func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}
	return nil
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID    int64  `json:"userId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	TokenType string `json:"type"`
}

