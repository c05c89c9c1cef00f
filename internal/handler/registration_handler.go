package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/service"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/response"
)

type registrationService interface {
	Register(ctx context.Context, req service.RegisterRequest) (*models.Lecturer, error)
	Faculties() []models.Faculty
}

// RegistrationHandler exposes lecturer sign-up.
type RegistrationHandler struct {
	service registrationService
}

// NewRegistrationHandler constructs the handler.
func NewRegistrationHandler(service registrationService) *RegistrationHandler {
	return &RegistrationHandler{service: service}
}

// Register godoc
// @Summary Register a lecturer
// @Description Every invalid field is reported in error.details.
// @Tags Registrations
// @Accept json
// @Produce json
// @Param payload body service.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Router /registrations [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "registration service not configured"))
		return
	}
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid registration payload"))
		return
	}
	lecturer, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, lecturer, nil)
}

// Faculties godoc
// @Summary Faculty and major table
// @Tags Registrations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /registrations/faculties [get]
func (h *RegistrationHandler) Faculties(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInternal, "registration service not configured"))
		return
	}
	response.JSON(c, http.StatusOK, h.service.Faculties(), nil, map[string]interface{}{
		"universities":  []string{models.UniversityYARSI, models.UniversityOther},
		"academicRanks": models.AcademicRanks,
	})
}
