package controllers

import (
	"net/http"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/models"
	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userNotFound = "User not found"

// UserController handles account management. Everything except Me is admin only.
type UserController struct {
	service   services.UserService
	validator *RequestValidator
}

func NewUserController(service services.UserService, validator *RequestValidator) *UserController {
	return &UserController{service: service, validator: validator}
}

// Me handles GET /users/me for the authenticated caller.
func (uc *UserController) Me(c *gin.Context) {
	id, err := uuid.Parse(c.GetString("userID"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
		return
	}
	user, svcErr := uc.service.GetUser(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) ListUsers(c *gin.Context) {
	offset, limit, svcErr := uc.validator.ParsePagination(c)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	users, page, svcErr := uc.service.ListUsers(c.Request.Context(), offset, limit)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "pagination": page})
}

func (uc *UserController) GetUser(c *gin.Context) {
	id, ok := parseID(c, userNotFound)
	if !ok {
		return
	}
	user, svcErr := uc.service.GetUser(c.Request.Context(), id)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (uc *UserController) CreateUser(c *gin.Context) {
	var req models.CreateUserRequest
	if svcErr := uc.validator.BindJSON(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	user, svcErr := uc.service.CreateUser(c.Request.Context(), &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusCreated, user.ID, actionCreated)
}

func (uc *UserController) UpdateUser(c *gin.Context) {
	id, ok := parseID(c, userNotFound)
	if !ok {
		return
	}
	var req models.UpdateUserRequest
	if svcErr := uc.validator.BindJSON(c, &req); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	user, svcErr := uc.service.UpdateUser(c.Request.Context(), id, &req)
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusOK, user.ID, actionUpdated)
}

func (uc *UserController) DeleteUser(c *gin.Context) {
	id, ok := parseID(c, userNotFound)
	if !ok {
		return
	}
	if svcErr := uc.service.DeleteUser(c.Request.Context(), id); svcErr != nil {
		respondError(c, svcErr)
		return
	}
	respondAction(c, http.StatusOK, id, actionDeleted)
}
