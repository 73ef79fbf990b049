package dto

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/nyaruka/phonenumbers"

	"onghub/internal/domain/application"
	"onghub/internal/domain/organization"
)

// RegisterValidators adds the custom binding tags used by the DTOs:
//
//	phone     a number valid in Romania or in international form
//	ong_area  an organization.Area
//	ong_type  an organization.Type
//	app_type  an application.Type
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return registerOn(v)
}

func registerOn(v *validator.Validate) error {
	rules := map[string]validator.Func{
		"phone": validatePhone,
		"ong_area": oneOf(
			organization.AreaLocal, organization.AreaRegional,
			organization.AreaNational, organization.AreaInternational,
		),
		"ong_type": oneOf(
			organization.TypeAssociation, organization.TypeFoundation, organization.TypeFederation,
		),
		"app_type": oneOf(
			application.TypeIndependent, application.TypeSimple, application.TypeStandalone,
		),
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s validator: %w", tag, err)
		}
	}
	return nil
}

func validatePhone(fl validator.FieldLevel) bool {
	raw := strings.Join(strings.Fields(fl.Field().String()), "")
	if raw == "" {
		return false
	}
	num, err := phonenumbers.Parse(raw, "RO")
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

func oneOf[T ~string](allowed ...T) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s := T(fl.Field().String())
		for _, a := range allowed {
			if s == a {
				return true
			}
		}
		return false
	}
}
