package userrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ecoscope/siagatani/internal/domain/account"
)

var errUserNotFound = errors.New("user not found")

const uniqueViolation = "23505"

const userColumns = `id, name, email, phone, role, status, village, district, password_hash, created_at, last_login_at`

// PostgresRepository persists users in Postgres.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Create inserts a new user row.
func (r *PostgresRepository) Create(ctx context.Context, user account.User) (account.User, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (name, email, phone, role, status, village, district, password_hash)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		user.Name, user.Email, user.Phone, user.Role, user.Status, user.Village, user.District, user.PasswordHash)
	created, err := scanUser(row)
	if err != nil {
		return account.User{}, mapConstraint(err)
	}
	return created, nil
}

// GetByEmail fetches a user by email.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (account.User, bool, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1 LIMIT 1`, email)
}

// GetByPhone fetches a user by normalized phone number.
func (r *PostgresRepository) GetByPhone(ctx context.Context, phone string) (account.User, bool, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone = $1 LIMIT 1`, phone)
}

// GetByID fetches by primary key.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (account.User, bool, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1 LIMIT 1`, id)
}

// Update writes the mutable fields of an existing user.
func (r *PostgresRepository) Update(ctx context.Context, user account.User) (account.User, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE users
		SET name = $2, phone = NULLIF($3, ''), village = $4, district = $5, status = $6, password_hash = $7
		WHERE id = $1
		RETURNING `+userColumns,
		user.ID, user.Name, user.Phone, user.Village, user.District, user.Status, user.PasswordHash)
	updated, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return account.User{}, errUserNotFound
		}
		return account.User{}, mapConstraint(err)
	}
	return updated, nil
}

// TouchLogin records the last successful login.
func (r *PostgresRepository) TouchLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login_at = $2 WHERE id = $1`, id, at.UTC())
	return err
}

// List returns users matching the filter ordered by ID.
func (r *PostgresRepository) List(ctx context.Context, filter account.UserFilter) ([]account.User, error) {
	search := strings.TrimSpace(filter.Search)
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE ($1 = '' OR role = $1)
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR email ILIKE '%' || $2 || '%')
		ORDER BY id
	`, filter.Role, search)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []account.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg any) (account.User, bool, error) {
	rows, err := r.pool.Query(ctx, query, arg)
	if err != nil {
		return account.User{}, false, err
	}
	defer rows.Close()
	if !rows.Next() {
		return account.User{}, false, rows.Err()
	}
	user, err := scanUser(rows)
	if err != nil {
		return account.User{}, false, err
	}
	return user, true, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (account.User, error) {
	var (
		user      account.User
		phone     *string
		created   time.Time
		lastLogin *time.Time
	)
	if err := row.Scan(&user.ID, &user.Name, &user.Email, &phone, &user.Role, &user.Status,
		&user.Village, &user.District, &user.PasswordHash, &created, &lastLogin); err != nil {
		return account.User{}, err
	}
	if phone != nil {
		user.Phone = *phone
	}
	user.CreatedAt = created.UTC()
	if lastLogin != nil {
		t := lastLogin.UTC()
		user.LastLoginAt = &t
	}
	return user, nil
}

func mapConstraint(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "email"):
		return account.ErrEmailExists
	case strings.Contains(pgErr.ConstraintName, "phone"):
		return account.ErrPhoneExists
	default:
		return err
	}
}

var _ account.Repository = (*PostgresRepository)(nil)
