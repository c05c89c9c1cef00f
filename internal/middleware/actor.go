package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/service"
)

// Headers a client sets to attribute its actions in the activity log.
const (
	HeaderActorName       = "X-Actor-Name"
	HeaderActorFaculty    = "X-Actor-Faculty"
	HeaderActorDepartment = "X-Actor-Department"
)

// ContextActorKey is the gin context key storing the declared actor.
const ContextActorKey = "currentActor"

// Actor attaches the caller-declared actor to the request context. Requests
// without X-Actor-Name are attributed to the system actor downstream.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := models.Actor{
			Name:       strings.TrimSpace(c.GetHeader(HeaderActorName)),
			Faculty:    strings.TrimSpace(c.GetHeader(HeaderActorFaculty)),
			Department: strings.TrimSpace(c.GetHeader(HeaderActorDepartment)),
		}
		if actor.Name != "" {
			c.Set(ContextActorKey, actor)
			c.Request = c.Request.WithContext(service.WithActor(c.Request.Context(), actor))
		}
		c.Next()
	}
}
