package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/service"
)

func TestActorAttachesDeclaredActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Actor())

	var got models.Actor
	r.GET("/whoami", func(c *gin.Context) {
		got = service.ActorFrom(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(HeaderActorName, " Rafly Eryan ")
	req.Header.Set(HeaderActorFaculty, "Fakultas Teknologi Informasi")
	req.Header.Set(HeaderActorDepartment, "Teknik Informatika")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, models.Actor{
		Name:       "Rafly Eryan",
		Faculty:    "Fakultas Teknologi Informasi",
		Department: "Teknik Informatika",
	}, got)
}

func TestActorFallsBackToSystem(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Actor())

	var got models.Actor
	var stored bool
	r.GET("/whoami", func(c *gin.Context) {
		got = service.ActorFrom(c.Request.Context())
		_, stored = c.Get(ContextActorKey)
		c.Status(http.StatusNoContent)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, "Sistem", got.Name)
	assert.False(t, stored)
}
