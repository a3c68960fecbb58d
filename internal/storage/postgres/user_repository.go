package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/msoohome/storefront/internal/domain"
)

type userRepository struct {
	db *sql.DB
}

// NewUserRepository returns the PostgreSQL implementation of
// domain.UserRepository.
func NewUserRepository(store *Store) domain.UserRepository {
	return &userRepository{db: store.DB()}
}

func (r *userRepository) Create(ctx context.Context, u domain.User) error {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(opCtx, `
		INSERT INTO users (id, name, email, phone, role, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`,
		u.ID, u.Name, u.Email, u.Phone, string(u.Role), u.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUserAlreadyExists
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (r *userRepository) Get(ctx context.Context, id string) (domain.User, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	var (
		u    domain.User
		role string
	)
	err := r.db.QueryRowContext(opCtx, `
		SELECT id, name, email, phone, role, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &role, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.User{}, domain.ErrUserNotFound
		}
		return domain.User{}, fmt.Errorf("select user: %w", err)
	}
	u.Role = domain.Role(role)

	return u, nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	opCtx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(opCtx, `
		SELECT id, name, email, phone, role, created_at
		FROM users
		ORDER BY created_at ASC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]domain.User, 0)
	for rows.Next() {
		var (
			u    domain.User
			role string
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &role, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		u.Role = domain.Role(role)
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user rows: %w", err)
	}

	return users, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
