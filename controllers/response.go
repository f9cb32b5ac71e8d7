package controllers

import (
	"net/http"

	"github.com/bentoluizv/projeto-aplicado-foodtruck-sub000/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	actionCreated = "created"
	actionUpdated = "updated"
	actionDeleted = "deleted"
)

// ActionResponse acknowledges a write.
type ActionResponse struct {
	ID     uuid.UUID `json:"id"`
	Action string    `json:"action"`
}

// respondError writes {detail: message}, or {detail: [field errors]} for
// validation failures.
func respondError(c *gin.Context, svcErr *services.ServiceError) {
	if len(svcErr.Fields) > 0 {
		c.AbortWithStatusJSON(svcErr.StatusCode, gin.H{"detail": svcErr.Fields})
		return
	}
	c.AbortWithStatusJSON(svcErr.StatusCode, gin.H{"detail": svcErr.Message})
}

func respondAction(c *gin.Context, status int, id uuid.UUID, action string) {
	c.JSON(status, ActionResponse{ID: id, Action: action})
}

// parseID reads the :id path parameter. Anything that is not a UUID cannot
// name an existing resource, so it is answered with notFound.
func parseID(c *gin.Context, notFound string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": notFound})
		return uuid.Nil, false
	}
	return id, true
}
