package controllers

import (
	"net/http"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
)

type AuthController struct {
	service   services.AuthService
	validator *RequestValidator
}

func NewAuthController(service services.AuthService, validator *RequestValidator) *AuthController {
	return &AuthController{service: service, validator: validator}
}

// Token handles POST /auth/token. It accepts a JSON body or an
// application/x-www-form-urlencoded password grant.
func (ac *AuthController) Token(c *gin.Context) {
	var req models.TokenRequest
	if svcErr := ac.validator.Bind(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	resp, svcErr := ac.service.Login(c.Request.Context(), req.Username, req.Password)
	if svcErr != nil {
		if svcErr.StatusCode == http.StatusUnauthorized {
			c.Header("WWW-Authenticate", "Bearer")
		}
		respondError(c, svcErr)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, resp)
}
