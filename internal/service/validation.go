package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/pentadosen-api/internal/models"
	appErrors "github.com/noah-isme/pentadosen-api/pkg/errors"
	"github.com/noah-isme/pentadosen-api/pkg/format"
)

// NewValidator returns a validator with the domain tags registered.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	registerDomainValidations(v)
	return v
}

func registerDomainValidations(v *validator.Validate) {
	_ = v.RegisterValidation("nidn", func(fl validator.FieldLevel) bool { return format.ValidNIDN(fl.Field().String()) })
	_ = v.RegisterValidation("nip", func(fl validator.FieldLevel) bool { return format.ValidNIP(fl.Field().String()) })
	_ = v.RegisterValidation("isbn13", func(fl validator.FieldLevel) bool { return format.ValidISBN(fl.Field().String()) })
	_ = v.RegisterValidation("pdemail", func(fl validator.FieldLevel) bool { return format.ValidEmail(fl.Field().String()) })
	_ = v.RegisterValidation("eventcategory", func(fl validator.FieldLevel) bool {
		return models.EventCategory(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("researchscheme", func(fl validator.FieldLevel) bool {
		switch models.ResearchScheme(fl.Field().String()) {
		case models.SchemeInternalGrant, models.SchemeExternalGrant, models.SchemeSelfFunded:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("pubcategory", func(fl validator.FieldLevel) bool {
		switch models.PublicationCategory(fl.Field().String()) {
		case models.PublicationScientificWork, models.PublicationScientificBook:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("pubtype", func(fl validator.FieldLevel) bool {
		switch models.PublicationType(fl.Field().String()) {
		case models.PublicationArticle, models.PublicationBook, models.PublicationMagazine:
			return true
		}
		return false
	})
	_ = v.RegisterValidation("hkitype", func(fl validator.FieldLevel) bool {
		for _, t := range models.HKITypes {
			if string(t) == fl.Field().String() {
				return true
			}
		}
		return false
	})
}

// validationError converts validator failures into a validation error with
// one message per field, keyed by the JSON field name.
func validationError(err error, message string) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
	}
	details := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[jsonFieldName(fe)] = fieldMessage(fe)
	}
	return appErrors.WithDetails(appErrors.Clone(appErrors.ErrValidation, message), details)
}

func jsonFieldName(fe validator.FieldError) string {
	name := fe.Field()
	if name == "" {
		return fe.StructField()
	}
	return strings.ToLower(name[:1]) + name[1:]
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "wajib diisi"
	case "nidn":
		return fmt.Sprintf("NIDN harus %d digit", format.NIDNLength)
	case "nip":
		return fmt.Sprintf("NIP harus %d digit", format.NIPLength)
	case "isbn13":
		return fmt.Sprintf("ISBN harus %d digit", format.ISBNLength)
	case "pdemail":
		return "format email tidak valid"
	case "min":
		return fmt.Sprintf("minimal %s", fe.Param())
	case "max":
		return fmt.Sprintf("maksimal %s", fe.Param())
	case "gte":
		return fmt.Sprintf("harus >= %s", fe.Param())
	case "lte":
		return fmt.Sprintf("harus <= %s", fe.Param())
	case "eventcategory", "researchscheme", "pubcategory", "pubtype", "hkitype", "oneof":
		return "nilai tidak dikenal"
	default:
		return fmt.Sprintf("tidak valid (%s)", fe.Tag())
	}
}
