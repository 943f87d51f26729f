package account

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/ecoscope/siagatani/pkg/errors"
)

func (s *service) ListUsers(ctx context.Context, filter UserFilter) ([]UserView, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Role = strings.ToLower(strings.TrimSpace(filter.Role))
	if filter.Role == "all" {
		filter.Role = ""
	}
	if filter.Role != "" && filter.Role != RoleFarmer && filter.Role != RoleAdmin {
		return nil, apperrors.Wrap("invalid_input", "role filter must be all, farmer or admin", nil)
	}
	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Wrap("auth_error", "failed to list users", err)
	}
	out := make([]UserView, 0, len(users))
	for _, u := range users {
		out = append(out, toView(u))
	}
	return out, nil
}

func (s *service) SetStatus(ctx context.Context, userID int64, status string) (UserView, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status != StatusActive && status != StatusInactive {
		return UserView{}, apperrors.Wrap("invalid_input", "status must be active or inactive", nil)
	}
	user, err := s.load(ctx, userID)
	if err != nil {
		return UserView{}, err
	}
	user.Status = status
	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		return UserView{}, apperrors.Wrap("auth_error", "failed to update status", err)
	}
	s.logger.Info("user status changed", "user", userID, "status", status)
	return toView(updated), nil
}

func (s *service) Stats(ctx context.Context) (Stats, error) {
	users, err := s.repo.List(ctx, UserFilter{})
	if err != nil {
		return Stats{}, apperrors.Wrap("auth_error", "failed to count users", err)
	}
	stats := Stats{TotalUsers: len(users)}
	for _, u := range users {
		switch {
		case u.Status != StatusActive:
			stats.Inactive++
		case u.Role == RoleAdmin:
			stats.Admins++
		case u.Role == RoleFarmer:
			stats.ActiveFarmers++
		}
	}
	return stats, nil
}

// EnsureAdmin creates the configured administrator when no account uses its email.
func (s *service) EnsureAdmin(ctx context.Context) error {
	seed := s.cfg.Admin
	if strings.TrimSpace(seed.Email) == "" {
		return nil
	}
	email, err := normalizeEmail(seed.Email)
	if err != nil {
		return apperrors.Wrap("invalid_input", "invalid admin email", err)
	}
	if _, exists, err := s.repo.GetByEmail(ctx, email); err != nil {
		return apperrors.Wrap("auth_error", "failed to check admin", err)
	} else if exists {
		return nil
	}
	if err := validatePassword(seed.Password); err != nil {
		return apperrors.Wrap("invalid_input", err.Error(), nil)
	}
	name := strings.TrimSpace(seed.Name)
	if name == "" {
		name = "Administrator"
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		return apperrors.Wrap("auth_error", "failed to hash password", err)
	}
	user, err := s.repo.Create(ctx, User{
		Name:         name,
		Email:        email,
		Role:         RoleAdmin,
		Status:       StatusActive,
		PasswordHash: string(hashed),
	})
	if err != nil {
		return mapUniqueErr(err, "failed to create admin")
	}
	s.logger.Info("admin account seeded", "user", user.ID)
	return nil
}
