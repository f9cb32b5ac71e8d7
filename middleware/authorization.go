package middleware

import (
	"fmt"
	"net/http"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const rbacModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// rbacPolicies grants user-level access to the ordering flow and reserves
// catalog writes, deletes and account management for admins.
var rbacPolicies = [][]string{
	{"user", "orders", "read"},
	{"user", "orders", "write"},
	{"user", "customers", "read"},
	{"user", "customers", "write"},
	{"admin", "orders", "delete"},
	{"admin", "customers", "delete"},
	{"admin", "categories", "write"},
	{"admin", "categories", "delete"},
	{"admin", "products", "write"},
	{"admin", "products", "delete"},
	{"admin", "users", "read"},
	{"admin", "users", "write"},
	{"admin", "users", "delete"},
}

// NewEnforcer builds the in-memory RBAC enforcer. Admins inherit every user permission.
func NewEnforcer() (*casbin.Enforcer, error) {
	m, err := model.NewModelFromString(rbacModel)
	if err != nil {
		return nil, fmt.Errorf("failed to parse RBAC model: %w", err)
	}
	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize RBAC enforcer: %w", err)
	}
	if _, err := e.AddPolicies(rbacPolicies); err != nil {
		return nil, fmt.Errorf("failed to load RBAC policies: %w", err)
	}
	if _, err := e.AddGroupingPolicy("admin", "user"); err != nil {
		return nil, fmt.Errorf("failed to load RBAC roles: %w", err)
	}
	return e, nil
}

// Authorize requires the authenticated role to hold action on resource.
// It must run after Auth.
func Authorize(enforcer *casbin.Enforcer, resource, action string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			unauthorized(c, "Not authenticated")
			return
		}
		allowed, err := enforcer.Enforce(role, resource, action)
		if err != nil {
			logger.Error("RBAC permission check failed", zap.String("role", role), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
			return
		}
		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Not enough permissions"})
			return
		}
		c.Next()
	}
}
