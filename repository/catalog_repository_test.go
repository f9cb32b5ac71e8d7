package repository_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestCategoryCreate_Duplicate(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCategoryRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "categories"`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Category{Name: "Burgers"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestCategoryCreate_AssignsID(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCategoryRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "categories"`)).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	category := &models.Category{Name: "Drinks", Icon: "cup"}
	require.NoError(t, repo.Create(context.Background(), category))
	assert.NotEqual(t, uuid.Nil, category.ID)
}

func TestCategoryFindAll(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCategoryRepository(gormDB)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "categories"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "categories" ORDER BY name ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "icon", "created_at", "updated_at"}).
			AddRow(uuid.NewString(), "Desserts", "cake", now, now))

	categories, total, err := repo.FindAll(context.Background(), 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, categories, 1)
	assert.Equal(t, "Desserts", categories[0].Name)
}

func TestCategoryCountProducts(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCategoryRepository(gormDB)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products" WHERE category_id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountProducts(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestCategoryDelete_NotFound(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCategoryRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "categories"`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, repo.Delete(context.Background(), uuid.New()), gorm.ErrRecordNotFound)
}

func TestProductFindAll_FilteredByCategory(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)
	categoryID := uuid.New()
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "products" WHERE category_id = $1`)).
		WithArgs(categoryID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "products" WHERE category_id = $1 ORDER BY name ASC`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "price", "category_id", "is_available", "created_at", "updated_at"}).
			AddRow(uuid.NewString(), "X-Burger", "", "25.90", categoryID.String(), true, now, now))

	products, total, err := repo.FindAll(context.Background(), 0, 10, repository.ProductFilter{CategoryID: &categoryID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, products, 1)
	assert.True(t, decimal.RequireFromString("25.90").Equal(products[0].Price))
	assert.Equal(t, categoryID, products[0].CategoryID)
}

func TestProductCreate_UnknownCategory(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "products"`)).
		WillReturnError(&pgconn.PgError{Code: "23503"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &models.Product{Name: "Fries", Price: decimal.NewFromInt(8), CategoryID: uuid.New()})
	assert.ErrorIs(t, err, gorm.ErrForeignKeyViolated)
}

func TestProductFindByIDs_Empty(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormProductRepository(gormDB)

	products, err := repo.FindByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCustomerCountOrders(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormCustomerRepository(gormDB)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "orders" WHERE customer_id = $1`)).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	count, err := repo.CountOrders(context.Background(), id)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestUserFindByUsername(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormUserRepository(gormDB)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "users" WHERE username = $1`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "is_active", "created_at", "updated_at"}).
			AddRow(uuid.NewString(), "admin", "admin@foodtruck.local", "$2a$10$hash", "admin", true, now, now))

	user, err := repo.FindByUsername(context.Background(), "admin")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.True(t, user.IsActive)
}

func TestUserCountAdmins(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewGormUserRepository(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "users" WHERE role = $1 AND is_active = $2`)).
		WithArgs("admin", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err := repo.CountAdmins(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
