package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación del puerto UserRepository sobre PostgreSQL.
type UserRepo struct {
	pool *pgxpool.Pool
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

// Create persiste un nuevo usuario. Email duplicado -> domain.ErrDuplicate.
func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, email, username, password_hash, role, is_staff, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		u.ID, u.Email, u.Username, u.PasswordHash, u.Role, u.IsStaff, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail obtiene un usuario por email; nil, nil si no existe.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	var u entity.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, email, username, password_hash, role, is_staff, created_at, updated_at
		FROM users WHERE email = $1`, email).Scan(
		&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Role, &u.IsStaff, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

// UpdatePassword reemplaza el hash de la contraseña.
func (r *UserRepo) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("update user password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
