package account

import (
	"context"
	"time"
)

// Repository abstracts user persistence.
type Repository interface {
	Create(ctx context.Context, user User) (User, error)
	GetByEmail(ctx context.Context, email string) (User, bool, error)
	GetByPhone(ctx context.Context, phone string) (User, bool, error)
	GetByID(ctx context.Context, id int64) (User, bool, error)
	Update(ctx context.Context, user User) (User, error)
	TouchLogin(ctx context.Context, id int64, at time.Time) error
	List(ctx context.Context, filter UserFilter) ([]User, error)
}
