package repository

import (
	"context"

	"github.com/jhoicas/stockmaster/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (identidad externa al núcleo).
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
}
