package services

import (
	"context"
	"sync"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// --- Mocks for Dependencies ---

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return m.Called(ctx, order).Error(0)
}
func (m *MockOrderRepository) FindAll(ctx context.Context, offset, limit int) ([]models.Order, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Order), args.Get(1).(int64), args.Error(2)
}
func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *MockOrderRepository) FindByLocator(ctx context.Context, locator string) (*models.Order, error) {
	args := m.Called(ctx, locator)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}
func (m *MockOrderRepository) Update(ctx context.Context, order *models.Order, fields map[string]interface{}) error {
	return m.Called(ctx, order, fields).Error(0)
}
func (m *MockOrderRepository) UpdateIfStatus(ctx context.Context, order *models.Order, current models.OrderStatus, fields map[string]interface{}) error {
	return m.Called(ctx, order, current, fields).Error(0)
}
func (m *MockOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return m.Called(ctx, customer).Error(0)
}
func (m *MockCustomerRepository) FindAll(ctx context.Context, offset, limit int) ([]models.Customer, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Customer), args.Get(1).(int64), args.Error(2)
}
func (m *MockCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Customer), args.Error(1)
}
func (m *MockCustomerRepository) Update(ctx context.Context, customer *models.Customer, fields map[string]interface{}) error {
	return m.Called(ctx, customer, fields).Error(0)
}
func (m *MockCustomerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCustomerRepository) CountOrders(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockCategoryRepository struct{ mock.Mock }

func (m *MockCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	return m.Called(ctx, category).Error(0)
}
func (m *MockCategoryRepository) FindAll(ctx context.Context, offset, limit int) ([]models.Category, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Category), args.Get(1).(int64), args.Error(2)
}
func (m *MockCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Category), args.Error(1)
}
func (m *MockCategoryRepository) Update(ctx context.Context, category *models.Category, fields map[string]interface{}) error {
	return m.Called(ctx, category, fields).Error(0)
}
func (m *MockCategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockCategoryRepository) CountProducts(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockProductRepository struct{ mock.Mock }

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	return m.Called(ctx, product).Error(0)
}
func (m *MockProductRepository) FindAll(ctx context.Context, offset, limit int, filter repository.ProductFilter) ([]models.Product, int64, error) {
	args := m.Called(ctx, offset, limit, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}
func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}
func (m *MockProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}
func (m *MockProductRepository) Update(ctx context.Context, product *models.Product, fields map[string]interface{}) error {
	return m.Called(ctx, product, fields).Error(0)
}
func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockProductRepository) CountOrderItems(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserRepository struct{ mock.Mock }

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepository) FindAll(ctx context.Context, offset, limit int) ([]models.User, int64, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}
func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}
func (m *MockUserRepository) Update(ctx context.Context, user *models.User, fields map[string]interface{}) error {
	return m.Called(ctx, user, fields).Error(0)
}
func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockUserRepository) CountAdmins(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// stubProducts is an in-memory ProductLookup that counts lookups.
type stubProducts struct {
	products map[uuid.UUID]*models.Product
	lookups  int
}

func (s *stubProducts) GetProducts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*models.Product, *ServiceError) {
	s.lookups++
	found := make(map[uuid.UUID]*models.Product, len(ids))
	for _, id := range ids {
		p, ok := s.products[id]
		if !ok {
			return nil, NewNotFoundError(productNotFound)
		}
		copied := *p
		found[id] = &copied
	}
	return found, nil
}

func (s *stubProducts) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, *ServiceError) {
	s.lookups++
	if p, ok := s.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, NewNotFoundError(productNotFound)
}

// sequenceLocators hands out a fixed list of codes in order.
type sequenceLocators struct {
	codes []string
	next  int
}

func (s *sequenceLocators) Generate() (string, error) {
	code := s.codes[s.next%len(s.codes)]
	s.next++
	return code, nil
}

type publishedEvent struct {
	eventType string
	orderID   uuid.UUID
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(ctx context.Context, eventType string, order *models.Order) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{eventType: eventType, orderID: order.ID})
}

// fakeSNS records SNS publishes and optionally fails them.
type fakeSNS struct {
	topic      string
	message    []byte
	attributes map[string]string
	err        error
}

func (f *fakeSNS) Publish(ctx context.Context, topicArn string, message []byte, attributes map[string]string) error {
	f.topic, f.message, f.attributes = topicArn, message, attributes
	return f.err
}
