package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/service"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
)

type fakeRegistrationSrv struct {
	last service.RegisterRequest
	err  error
}

func (f *fakeRegistrationSrv) Register(_ context.Context, req service.RegisterRequest) (*models.Lecturer, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.Lecturer{ID: "l1", FullName: req.FullName, Username: "janedoe", PasswordHash: "hashed"}, nil
}

func (f *fakeRegistrationSrv) Faculties() []models.Faculty { return models.Faculties }

func TestRegistrationHandlerRegisterHidesPassword(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := &fakeRegistrationSrv{}
	handler := NewRegistrationHandler(svc)

	c, rec := jsonContext(http.MethodPost, "/registrations", map[string]string{
		"fullName": "Jane Doe",
		"password": "rahasia",
	})
	handler.Register(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "rahasia", svc.last.Password)
	assert.NotContains(t, rec.Body.String(), "hashed")
}

func TestRegistrationHandlerReturnsFieldDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	err := appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "registration has invalid fields"), map[string]string{
		"nidn":  "NIDN must be 10 digits",
		"email": "email is invalid",
	})
	handler := NewRegistrationHandler(&fakeRegistrationSrv{err: err})

	c, rec := jsonContext(http.MethodPost, "/registrations", map[string]string{"fullName": "Jane Doe"})
	handler.Register(c)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	details, ok := decodeEnvelope(t, rec).Error["details"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, details, 2)
	assert.Contains(t, details, "nidn")
}

func TestRegistrationHandlerFaculties(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewRegistrationHandler(&fakeRegistrationSrv{})

	c, rec := jsonContext(http.MethodGet, "/registrations/faculties", nil)
	handler.Faculties(c)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	var faculties []models.Faculty
	require.NoError(t, json.Unmarshal(envelope.Data, &faculties))
	assert.Len(t, faculties, 6)
	assert.Contains(t, envelope.Meta, "academicRanks")
}
