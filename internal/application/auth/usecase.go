package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/stockmaster/internal/application/dto"
	"github.com/jhoicas/stockmaster/internal/domain"
	"github.com/jhoicas/stockmaster/internal/domain/entity"
	"github.com/jhoicas/stockmaster/internal/domain/repository"
	"golang.org/x/crypto/bcrypt"
)

// UserUseCase gestiona las identidades que se adjuntan a documentos y jobs.
// Las contraseñas se guardan siempre como hash bcrypt.
type UserUseCase struct {
	userRepo repository.UserRepository
	cost     int
}

// NewUserUseCase construye el caso de uso. cost <= 0 usa bcrypt.DefaultCost.
func NewUserUseCase(userRepo repository.UserRepository, cost int) *UserUseCase {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &UserUseCase{userRepo: userRepo, cost: cost}
}

// EnsureUser devuelve el usuario con ese email o lo crea con la contraseña hasheada.
// Si ya existe no se toca su contraseña.
func (uc *UserUseCase) EnsureUser(ctx context.Context, in dto.EnsureUserRequest) (*entity.User, bool, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" || in.Password == "" {
		return nil, false, fmt.Errorf("%w: email y contraseña son obligatorios", domain.ErrInvalidInput)
	}
	existing, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.cost)
	if err != nil {
		return nil, false, err
	}
	now := time.Now()
	username := in.Username
	if username == "" {
		username = email
	}
	role := in.Role
	if role == "" {
		role = entity.RoleWarehouseStaff
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		IsStaff:      in.IsStaff,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// Authenticate verifica email/contraseña. Devuelve domain.ErrUnauthorized si no coinciden.
func (uc *UserUseCase) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// ResetPassword reemplaza el hash de la contraseña de un usuario existente.
func (uc *UserUseCase) ResetPassword(ctx context.Context, email, password string) error {
	if password == "" {
		return fmt.Errorf("%w: contraseña vacía", domain.ErrInvalidInput)
	}
	user, err := uc.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrNotFound
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), uc.cost)
	if err != nil {
		return err
	}
	return uc.userRepo.UpdatePassword(ctx, user.ID, string(hash))
}
