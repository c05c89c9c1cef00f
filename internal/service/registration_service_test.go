package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
)

func newRegistrationFixture() (*RegistrationService, *repository.LecturerRepository, *activityRecorderStub) {
	repo := repository.NewLecturerRepository()
	activity := &activityRecorderStub{}
	svc := NewRegistrationService(repo, activity, nil, nil)
	svc.bcryptCost = bcrypt.MinCost
	return svc, repo, activity
}

func validRegisterRequest() RegisterRequest {
	return RegisterRequest{
		FullName:        "Dr. Jane Doe, M.T.",
		NIDN:            "0312345678",
		NIP:             "198001012005011001",
		AcademicRank:    "Lektor",
		University:      models.UniversityYARSI,
		Faculty:         "Fakultas Teknologi Informasi",
		Major:           "Teknik Informatika",
		Email:           "jane.doe@yarsi.ac.id",
		Username:        " Jane Doe ",
		Password:        "rahasia1",
		ConfirmPassword: "rahasia1",
	}
}

func TestRegistrationServiceRegister(t *testing.T) {
	svc, repo, activity := newRegistrationFixture()

	lecturer, err := svc.Register(context.Background(), validRegisterRequest())
	require.NoError(t, err)
	assert.Equal(t, "janedoe", lecturer.Username)
	assert.Equal(t, "0-312345-678", lecturer.NIDN)
	assert.Equal(t, "19800101-200501-1-001", lecturer.NIP)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(lecturer.PasswordHash), []byte("rahasia1")))
	assert.Equal(t, 1, repo.Count())
	assert.Equal(t, 1, activity.count())

	_, err = svc.Register(context.Background(), validRegisterRequest())
	require.Error(t, err)
	assert.Equal(t, "username sudah digunakan", appErrors.FromError(err).Details["username"])
}

func TestRegistrationServiceCollectsEveryFieldError(t *testing.T) {
	svc, repo, _ := newRegistrationFixture()

	req := RegisterRequest{
		FullName:        "",
		NIDN:            "12345",
		NIP:             "1980",
		AcademicRank:    "Dosen Tamu",
		University:      models.UniversityOther,
		Faculty:         "Fakultas Hukum",
		Major:           "Manajemen",
		Email:           "bukan-email",
		Username:        "   ",
		Password:        "123",
		ConfirmPassword: "456",
	}
	err := svc.Validate(req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	details := appErrors.FromError(err).Details
	for _, field := range []string{
		"fullName", "nidn", "nip", "academicRank", "otherUniversity", "major",
		"email", "username", "password", "confirmPassword",
	} {
		assert.Contains(t, details, field)
	}
	assert.Equal(t, "Password tidak cocok", details["confirmPassword"])
	assert.Zero(t, repo.Count())
}

func TestRegistrationServiceOtherUniversity(t *testing.T) {
	svc, _, _ := newRegistrationFixture()
	req := validRegisterRequest()
	req.University = models.UniversityOther
	req.OtherUniversity = "Universitas Indonesia"

	lecturer, err := svc.Register(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Universitas Indonesia", lecturer.University)
}

func TestRegistrationServiceUnknownFaculty(t *testing.T) {
	svc, _, _ := newRegistrationFixture()
	req := validRegisterRequest()
	req.Faculty = "Fakultas Teknik"

	err := svc.Validate(req)
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Details, "faculty")
	assert.Len(t, svc.Faculties(), len(models.Faculties))
}
