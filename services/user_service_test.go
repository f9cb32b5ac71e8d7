package services

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	PasswordCost = bcrypt.MinCost
	os.Exit(m.Run())
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Defaults To User Role And Hashes Password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		repo.On("Create", ctx, mock.AnythingOfType("*models.User")).Return(nil).Once()

		user, svcErr := svc.CreateUser(ctx, &models.CreateUserRequest{Username: "maria", Email: "Maria@Truck.io", Password: "s3cretpass"})

		require.Nil(t, svcErr)
		assert.Equal(t, models.RoleUser, user.Role)
		assert.Equal(t, "maria@truck.io", user.Email)
		assert.True(t, user.IsActive)
		ok, err := CheckPassword(user.PasswordHash, "s3cretpass")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Short Password", func(t *testing.T) {
		svc := NewUserService(new(MockUserRepository), zap.NewNop())

		_, svcErr := svc.CreateAdmin(ctx, "root", "root@truck.io", "short")

		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusUnprocessableEntity, svcErr.StatusCode)
		assert.Equal(t, "password", svcErr.Fields[0].Field)
	})

	t.Run("Duplicate Username", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		repo.On("Create", ctx, mock.Anything).Return(gorm.ErrDuplicatedKey).Once()

		_, svcErr := svc.CreateAdmin(ctx, "root", "root@truck.io", "longenough")

		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusConflict, svcErr.StatusCode)
		assert.Equal(t, "User already exists", svcErr.Message)
	})
}

func TestUserService_LastAdminProtection(t *testing.T) {
	ctx := context.Background()
	admin := func() *models.User {
		return &models.User{ID: uuid.New(), Username: "root", Role: models.RoleAdmin, IsActive: true}
	}

	t.Run("Delete Last Admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		repo.On("FindByUsername", ctx, "root").Return(admin(), nil).Once()
		repo.On("CountAdmins", ctx).Return(int64(1), nil).Once()

		svcErr := svc.DeleteByUsername(ctx, "root")

		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusConflict, svcErr.StatusCode)
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("Delete Admin When Another Exists", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		user := admin()
		repo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		repo.On("CountAdmins", ctx).Return(int64(2), nil).Once()
		repo.On("Delete", ctx, user.ID).Return(nil).Once()

		assert.Nil(t, svc.DeleteUser(ctx, user.ID))
		repo.AssertExpectations(t)
	})

	t.Run("Demote Last Admin", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		user := admin()
		role := models.RoleUser
		repo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		repo.On("CountAdmins", ctx).Return(int64(1), nil).Once()

		_, svcErr := svc.UpdateUser(ctx, user.ID, &models.UpdateUserRequest{Role: &role})

		require.NotNil(t, svcErr)
		assert.Equal(t, "Cannot remove the last active admin", svcErr.Message)
	})

	t.Run("Demote Inactive Admin Skips Count", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		user := admin()
		user.IsActive = false
		role := models.RoleUser
		repo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		repo.On("Update", ctx, user, map[string]interface{}{"role": models.RoleUser}).Return(nil).Once()

		updated, svcErr := svc.UpdateUser(ctx, user.ID, &models.UpdateUserRequest{Role: &role})

		require.Nil(t, svcErr)
		assert.Equal(t, models.RoleUser, updated.Role)
		repo.AssertNotCalled(t, "CountAdmins", mock.Anything)
	})

	t.Run("Deactivate Regular User Skips Count", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		user := &models.User{ID: uuid.New(), Role: models.RoleUser, IsActive: true}
		inactive := false
		repo.On("FindByID", ctx, user.ID).Return(user, nil).Once()
		repo.On("Update", ctx, user, map[string]interface{}{"is_active": false}).Return(nil).Once()

		updated, svcErr := svc.UpdateUser(ctx, user.ID, &models.UpdateUserRequest{IsActive: &inactive})

		require.Nil(t, svcErr)
		assert.False(t, updated.IsActive)
		repo.AssertNotCalled(t, "CountAdmins", mock.Anything)
	})
}

func TestUserService_SetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("Unknown User", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		repo.On("FindByUsername", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound).Once()

		svcErr := svc.SetPassword(ctx, "ghost", "newpassword")

		require.NotNil(t, svcErr)
		assert.Equal(t, "User not found", svcErr.Message)
	})

	t.Run("Stores New Hash", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewUserService(repo, zap.NewNop())
		user := &models.User{ID: uuid.New(), Username: "maria", PasswordHash: "old"}
		repo.On("FindByUsername", ctx, "maria").Return(user, nil).Once()
		repo.On("Update", ctx, user, mock.AnythingOfType("map[string]interface {}")).Return(nil).Once()

		require.Nil(t, svc.SetPassword(ctx, "maria", "newpassword"))
		ok, err := CheckPassword(user.PasswordHash, "newpassword")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	hash, err := HashPassword("correct-horse")
	require.NoError(t, err)
	tokens := NewTokenService("test-secret", 30*time.Minute)

	active := &models.User{ID: uuid.New(), Username: "maria", PasswordHash: hash, Role: models.RoleUser, IsActive: true}

	t.Run("Success", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, tokens, zap.NewNop())
		repo.On("FindByUsername", ctx, "maria").Return(active, nil).Once()

		resp, svcErr := svc.Login(ctx, "maria", "correct-horse")

		require.Nil(t, svcErr)
		assert.Equal(t, "bearer", resp.TokenType)
		assert.Equal(t, int64(1800), resp.ExpiresIn)
		claims, err := tokens.ValidateToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, active.ID.String(), claims.UserID)
		assert.Equal(t, models.RoleUser, claims.Role)
	})

	t.Run("Wrong Password", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, tokens, zap.NewNop())
		repo.On("FindByUsername", ctx, "maria").Return(active, nil).Once()

		_, svcErr := svc.Login(ctx, "maria", "wrong")

		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
		assert.Equal(t, "Incorrect username or password", svcErr.Message)
	})

	t.Run("Unknown User", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, tokens, zap.NewNop())
		repo.On("FindByUsername", ctx, "ghost").Return(nil, gorm.ErrRecordNotFound).Once()

		_, svcErr := svc.Login(ctx, "ghost", "whatever")

		require.NotNil(t, svcErr)
		assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
	})

	t.Run("Inactive User", func(t *testing.T) {
		repo := new(MockUserRepository)
		svc := NewAuthService(repo, tokens, zap.NewNop())
		inactive := *active
		inactive.IsActive = false
		repo.On("FindByUsername", ctx, "maria").Return(&inactive, nil).Once()

		_, svcErr := svc.Login(ctx, "maria", "correct-horse")

		require.NotNil(t, svcErr)
		assert.Equal(t, "Incorrect username or password", svcErr.Message)
	})
}
