package services

import (
	"context"
	"errors"
	"strings"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	userNotFound = "User not found"
	userExists   = "User already exists"
	lastAdmin    = "Cannot remove the last active admin"

	minPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	maxPasswordLength = 72
)

type UserService interface {
	ListUsers(ctx context.Context, offset, limit int) ([]models.User, Pagination, *ServiceError)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, *ServiceError)
	CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, *ServiceError)
	UpdateUser(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, *ServiceError)
	DeleteUser(ctx context.Context, id uuid.UUID) *ServiceError

	// Administrative operations used by the CLI.
	CreateAdmin(ctx context.Context, username, email, password string) (*models.User, *ServiceError)
	SetPassword(ctx context.Context, username, password string) *ServiceError
	DeleteByUsername(ctx context.Context, username string) *ServiceError
}

type userServiceImpl struct {
	repo   repository.UserRepository
	logger *zap.Logger
}

func NewUserService(repo repository.UserRepository, logger *zap.Logger) UserService {
	return &userServiceImpl{repo: repo, logger: logger}
}

func (s *userServiceImpl) ListUsers(ctx context.Context, offset, limit int) ([]models.User, Pagination, *ServiceError) {
	users, total, err := s.repo.FindAll(ctx, offset, limit)
	if err != nil {
		s.logger.Error("Failed to list users", zap.Error(err))
		return nil, Pagination{}, NewInternalError(internalErrorMessage)
	}
	if users == nil {
		users = []models.User{}
	}
	return users, NewPagination(offset, limit, total), nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, id uuid.UUID) (*models.User, *ServiceError) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.readError(err)
	}
	return user, nil
}

func (s *userServiceImpl) CreateUser(ctx context.Context, req *models.CreateUserRequest) (*models.User, *ServiceError) {
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	return s.create(ctx, req.Username, req.Email, req.Password, role)
}

func (s *userServiceImpl) CreateAdmin(ctx context.Context, username, email, password string) (*models.User, *ServiceError) {
	return s.create(ctx, username, email, password, models.RoleAdmin)
}

func (s *userServiceImpl) create(ctx context.Context, username, email, password string, role models.Role) (*models.User, *ServiceError) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)

	var fieldErrs []models.FieldError
	if len(username) < 3 || len(username) > 50 {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "username", Message: "must be between 3 and 50 characters"})
	}
	if email == "" {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "email", Message: "is required"})
	}
	if fe := passwordFieldError(password); fe != nil {
		fieldErrs = append(fieldErrs, *fe)
	}
	if !role.IsValid() {
		fieldErrs = append(fieldErrs, models.FieldError{Field: "role", Message: "must be one of admin, user"})
	}
	if len(fieldErrs) > 0 {
		return nil, NewValidationError(fieldErrs...)
	}

	hash, err := HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}

	user := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError(userExists)
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}
	s.logger.Info("User created", zap.String("user_id", user.ID.String()), zap.String("role", string(role)))
	return user, nil
}

func (s *userServiceImpl) UpdateUser(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*models.User, *ServiceError) {
	user, svcErr := s.GetUser(ctx, id)
	if svcErr != nil {
		return nil, svcErr
	}

	fields := map[string]interface{}{}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		fields["email"], user.Email = email, email
	}
	if req.Password != nil {
		if fe := passwordFieldError(*req.Password); fe != nil {
			return nil, NewValidationError(*fe)
		}
		hash, err := HashPassword(*req.Password)
		if err != nil {
			s.logger.Error("Failed to hash password", zap.Error(err))
			return nil, NewInternalError(internalErrorMessage)
		}
		fields["password_hash"], user.PasswordHash = hash, hash
	}

	losesAdmin := false
	if req.Role != nil {
		if !req.Role.IsValid() {
			return nil, NewValidationError(models.FieldError{Field: "role", Message: "must be one of admin, user"})
		}
		losesAdmin = user.Role == models.RoleAdmin && user.IsActive && *req.Role != models.RoleAdmin
		fields["role"], user.Role = *req.Role, *req.Role
	}
	if req.IsActive != nil {
		losesAdmin = losesAdmin || (user.Role == models.RoleAdmin && user.IsActive && !*req.IsActive)
		fields["is_active"], user.IsActive = *req.IsActive, *req.IsActive
	}
	if len(fields) == 0 {
		return nil, NewValidationError(models.FieldError{Field: "body", Message: "at least one field must be provided"})
	}

	if losesAdmin {
		if svcErr := s.ensureAnotherAdmin(ctx); svcErr != nil {
			return nil, svcErr
		}
	}

	if err := s.repo.Update(ctx, user, fields); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, NewConflictError(userExists)
		}
		s.logger.Error("Failed to update user", zap.String("user_id", id.String()), zap.Error(err))
		return nil, NewInternalError(internalErrorMessage)
	}
	return user, nil
}

func (s *userServiceImpl) DeleteUser(ctx context.Context, id uuid.UUID) *ServiceError {
	user, svcErr := s.GetUser(ctx, id)
	if svcErr != nil {
		return svcErr
	}
	return s.delete(ctx, user)
}

func (s *userServiceImpl) DeleteByUsername(ctx context.Context, username string) *ServiceError {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return s.readError(err)
	}
	return s.delete(ctx, user)
}

func (s *userServiceImpl) delete(ctx context.Context, user *models.User) *ServiceError {
	if user.Role == models.RoleAdmin && user.IsActive {
		if svcErr := s.ensureAnotherAdmin(ctx); svcErr != nil {
			return svcErr
		}
	}
	if err := s.repo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NewNotFoundError(userNotFound)
		}
		s.logger.Error("Failed to delete user", zap.String("user_id", user.ID.String()), zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	s.logger.Info("User deleted", zap.String("user_id", user.ID.String()))
	return nil
}

func (s *userServiceImpl) SetPassword(ctx context.Context, username, password string) *ServiceError {
	if fe := passwordFieldError(password); fe != nil {
		return NewValidationError(*fe)
	}
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return s.readError(err)
	}
	hash, err := HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	user.PasswordHash = hash
	if err := s.repo.Update(ctx, user, map[string]interface{}{"password_hash": hash}); err != nil {
		s.logger.Error("Failed to set password", zap.String("user_id", user.ID.String()), zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	return nil
}

func (s *userServiceImpl) ensureAnotherAdmin(ctx context.Context) *ServiceError {
	count, err := s.repo.CountAdmins(ctx)
	if err != nil {
		s.logger.Error("Failed to count admins", zap.Error(err))
		return NewInternalError(internalErrorMessage)
	}
	if count <= 1 {
		return NewConflictError(lastAdmin)
	}
	return nil
}

func (s *userServiceImpl) readError(err error) *ServiceError {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NewNotFoundError(userNotFound)
	}
	s.logger.Error("Failed to fetch user", zap.Error(err))
	return NewInternalError(internalErrorMessage)
}

func passwordFieldError(password string) *models.FieldError {
	if len(password) < minPasswordLength || len(password) > maxPasswordLength {
		return &models.FieldError{Field: "password", Message: "must be between 8 and 72 characters"}
	}
	return nil
}
