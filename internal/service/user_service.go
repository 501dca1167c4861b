package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/ticketdesk/ticketdesk-service/internal/auth"
	"github.com/ticketdesk/ticketdesk-service/internal/domain"
	"github.com/ticketdesk/ticketdesk-service/internal/repository"
	apperrors "github.com/ticketdesk/ticketdesk-service/pkg/util/errorutil"
)

// UserService is the super admin's account management.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// CreateUserInput describes an account created by an administrator.
type CreateUserInput struct {
	Name       string
	Email      string
	Password   string
	Role       domain.Role
	Department string
}

// UpdateUserInput carries optional changes; nil fields are left untouched.
type UpdateUserInput struct {
	Name       *string
	Email      *string
	Password   *string
	Role       *domain.Role
	Department *string
}

// List returns users matching filter, sorted by name.
func (s *UserService) List(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// Create adds an account of any role.
func (s *UserService) Create(ctx context.Context, in CreateUserInput) (*domain.User, error) {
	user := &domain.User{
		ID:         uuid.NewString(),
		Name:       strings.TrimSpace(in.Name),
		Email:      normalizeEmail(in.Email),
		Role:       in.Role,
		Department: strings.TrimSpace(in.Department),
	}
	if err := validateAccount(user); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// Update applies changes to an account. Administrators cannot change their
// own role.
func (s *UserService) Update(ctx context.Context, actor *domain.User, id string, in UpdateUserInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, mapRepoError(err, "user")
	}

	if in.Role != nil && *in.Role != user.Role && actor.ID == user.ID {
		return nil, apperrors.NewValidationError("you cannot change your own role", map[string]any{
			"role": "cannot change own role",
		})
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		user.Email = normalizeEmail(*in.Email)
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Department != nil {
		user.Department = strings.TrimSpace(*in.Department)
	}
	if err := validateAccount(user); err != nil {
		return nil, err
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := auth.HashPassword(*in.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
		}
		return nil, mapRepoError(err, "user")
	}
	return user, nil
}

// Delete removes an account. Tickets submitted by it are kept.
func (s *UserService) Delete(ctx context.Context, actor *domain.User, id string) error {
	if actor.ID == id {
		return apperrors.NewValidationError("you cannot delete your own account", nil)
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return mapRepoError(err, "user")
	}
	return nil
}

func validateAccount(user *domain.User) error {
	if user.Name == "" {
		return fieldError("name", "name is required")
	}
	if user.Email == "" {
		return fieldError("email", "email is required")
	}
	if !user.Role.Valid() {
		return fieldError("role", "role must be one of: student, faculty, sub_admin, super_admin")
	}
	if user.Role == domain.RoleSubAdmin && user.Department == "" {
		return fieldError("department", "department is required for sub_admin")
	}
	return nil
}
