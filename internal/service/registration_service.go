package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/pentadosen-api/internal/models"
	"github.com/noah-isme/pentadosen-api/internal/repository"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/format"
)

type lecturerRepository interface {
	Create(lecturer models.Lecturer) error
	UsernameTaken(username string) bool
}

// RegistrationService validates lecturer sign-ups and stores the accounts.
type RegistrationService struct {
	repo       lecturerRepository
	activity   ActivityRecorder
	validator  *validator.Validate
	logger     *zap.Logger
	bcryptCost int
	now        func() time.Time
}

// NewRegistrationService constructs the service.
func NewRegistrationService(repo lecturerRepository, activity ActivityRecorder, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if validate == nil {
		validate = NewValidator()
	} else {
		registerDomainValidations(validate)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if activity == nil {
		activity = noopActivity{}
	}
	return &RegistrationService{
		repo:       repo,
		activity:   activity,
		validator:  validate,
		logger:     logger,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// RegisterRequest is the sign-up payload.
type RegisterRequest struct {
	FullName        string `json:"fullName" validate:"required,max=150"`
	NIDN            string `json:"nidn" validate:"required,nidn"`
	NIP             string `json:"nip" validate:"required,nip"`
	AcademicRank    string `json:"academicRank" validate:"required"`
	University      string `json:"university" validate:"required"`
	OtherUniversity string `json:"otherUniversity"`
	Faculty         string `json:"faculty" validate:"required"`
	Major           string `json:"major" validate:"required"`
	Email           string `json:"email" validate:"required,pdemail"`
	Username        string `json:"username" validate:"required,max=50"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

// Faculties returns the faculty to major table.
func (s *RegistrationService) Faculties() []models.Faculty {
	out := make([]models.Faculty, len(models.Faculties))
	for i, f := range models.Faculties {
		out[i] = models.Faculty{Name: f.Name, Majors: append([]string(nil), f.Majors...)}
	}
	return out
}

// Validate reports every failing field of req at once. It returns nil when
// the request is acceptable.
func (s *RegistrationService) Validate(req RegisterRequest) error {
	req = normaliseRegisterRequest(req)
	details := map[string]string{}

	if err := s.validator.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid registration payload")
		}
		for _, fe := range fieldErrs {
			details[jsonFieldName(fe)] = fieldMessage(fe)
		}
	}

	if req.AcademicRank != "" && !contains(models.AcademicRanks, req.AcademicRank) {
		details["academicRank"] = "jabatan akademik tidak dikenal"
	}
	switch req.University {
	case "", models.UniversityYARSI:
	case models.UniversityOther:
		if req.OtherUniversity == "" {
			details["otherUniversity"] = "nama universitas wajib diisi"
		}
	default:
		details["university"] = "universitas tidak dikenal"
	}
	if req.Faculty != "" {
		majors, ok := models.FacultyMajors(req.Faculty)
		switch {
		case !ok:
			details["faculty"] = "fakultas tidak dikenal"
		case req.Major != "" && !contains(majors, req.Major):
			details["major"] = "program studi tidak sesuai fakultas"
		}
	}
	if req.ConfirmPassword != "" && req.ConfirmPassword != req.Password {
		details["confirmPassword"] = "Password tidak cocok"
	}
	if req.Username != "" && s.repo.UsernameTaken(req.Username) {
		details["username"] = "username sudah digunakan"
	}

	if len(details) > 0 {
		return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, "registration has invalid fields"), details)
	}
	return nil
}

// Register validates req, hashes the password and stores the lecturer.
func (s *RegistrationService) Register(ctx context.Context, req RegisterRequest) (*models.Lecturer, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}
	req = normaliseRegisterRequest(req)

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, appErrors.Internal(err, "failed to hash password")
	}

	university := req.University
	if university == models.UniversityOther {
		university = req.OtherUniversity
	}
	lecturer := models.Lecturer{
		ID:           uuid.NewString(),
		FullName:     req.FullName,
		NIDN:         format.FormatNIDN(req.NIDN),
		NIP:          format.FormatNIP(req.NIP),
		AcademicRank: req.AcademicRank,
		University:   university,
		Faculty:      req.Faculty,
		Major:        req.Major,
		Email:        req.Email,
		Username:     req.Username,
		PasswordHash: string(hash),
		RegisteredAt: s.now().UTC(),
	}
	if err := s.repo.Create(lecturer); err != nil {
		if errors.Is(err, repository.ErrDuplicateID) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "lecturer with this username, NIDN or email already exists")
		}
		return nil, appErrors.Internal(err, "failed to store lecturer")
	}

	s.logger.Info("lecturer registered", zap.String("username", lecturer.Username), zap.String("faculty", lecturer.Faculty))
	actorCtx := WithActor(ctx, models.Actor{Name: lecturer.FullName, Faculty: lecturer.Faculty, Department: lecturer.Major})
	s.activity.Record(actorCtx, models.ActivityRegister, models.EntityLecturer, lecturer.ID,
		fmt.Sprintf("Registrasi dosen baru %s", lecturer.FullName))
	return &lecturer, nil
}

func normaliseRegisterRequest(req RegisterRequest) RegisterRequest {
	req.FullName = strings.TrimSpace(req.FullName)
	req.AcademicRank = strings.TrimSpace(req.AcademicRank)
	req.University = strings.TrimSpace(req.University)
	req.OtherUniversity = strings.TrimSpace(req.OtherUniversity)
	req.Faculty = strings.TrimSpace(req.Faculty)
	req.Major = strings.TrimSpace(req.Major)
	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.ToLower(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, req.Username))
	return req
}

func contains(items []string, value string) bool {
	for _, item := range items {
		if item == value {
			return true
		}
	}
	return false
}
