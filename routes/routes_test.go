package routes

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/controllers"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/middleware"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestRouter wires controllers without services; only requests rejected
// by middleware may be sent through it.
func newTestRouter(t *testing.T) (*gin.Engine, *services.TokenService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	enforcer, err := middleware.NewEnforcer()
	require.NoError(t, err)
	tokens := services.NewTokenService("test-secret", time.Minute)
	v := controllers.NewRequestValidator(100, 1000)

	ctrl := Controllers{
		Categories: controllers.NewCategoryController(nil, v),
		Products:   controllers.NewProductController(nil, v),
		Customers:  controllers.NewCustomerController(nil, v),
		Orders:     controllers.NewOrderController(nil, v, zap.NewNop()),
		Users:      controllers.NewUserController(nil, v),
		Auth:       controllers.NewAuthController(nil, v),
		Health:     controllers.NewHealthController(services.NewHealthService(zap.NewNop())),
	}
	r := NewRouter(ctrl, RouterOptions{
		APIPrefix:      "/api/v1",
		Tokens:         tokens,
		Enforcer:       enforcer,
		Metrics:        middleware.NewServerMetrics(prometheus.NewRegistry()),
		Logger:         zap.NewNop(),
		AllowedOrigins: []string{"*"},
	})
	return r, tokens
}

func TestNewRouter_RegistersRoutes(t *testing.T) {
	r, _ := newTestRouter(t)

	registered := map[string]bool{}
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	for _, want := range []string{
		"GET /health",
		"GET /metrics",
		"POST /api/v1/auth/token",
		"GET /api/v1/categories/",
		"PATCH /api/v1/categories/:id",
		"GET /api/v1/products/",
		"DELETE /api/v1/products/:id",
		"POST /api/v1/customers/",
		"GET /api/v1/orders/",
		"POST /api/v1/orders/",
		"GET /api/v1/orders/:id",
		"GET /api/v1/orders/locator/:locator",
		"PATCH /api/v1/orders/:id",
		"DELETE /api/v1/orders/:id",
		"GET /api/v1/users/me",
		"DELETE /api/v1/users/:id",
	} {
		assert.True(t, registered[want], "missing route %s", want)
	}
}

func TestNewRouter_AccessControl(t *testing.T) {
	r, tokens := newTestRouter(t)
	userToken, err := tokens.GenerateAccessToken(&models.User{ID: uuid.New(), Username: "ana", Role: models.RoleUser})
	require.NoError(t, err)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"Orders Need Token", http.MethodPost, "/api/v1/orders/", "", http.StatusUnauthorized},
		{"Customers Need Token", http.MethodGet, "/api/v1/customers/", "", http.StatusUnauthorized},
		{"Catalog Writes Need Token", http.MethodPost, "/api/v1/products/", "", http.StatusUnauthorized},
		{"User Cannot Delete Orders", http.MethodDelete, "/api/v1/orders/" + uuid.NewString(), userToken, http.StatusForbidden},
		{"User Cannot Manage Users", http.MethodGet, "/api/v1/users/", userToken, http.StatusForbidden},
		{"User Cannot Write Categories", http.MethodPost, "/api/v1/categories/", userToken, http.StatusForbidden},
		{"Unknown Route", http.MethodGet, "/api/v1/nothing", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader("{}"))
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestNewRouter_HealthAtRoot(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{}}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
