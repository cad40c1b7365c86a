package service

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/interference-service/internal/domain"
	apperrors "github.com/spec-kit/interference-service/pkg/util/errorutil"
)

var phonePattern = regexp.MustCompile(`^[0-9+()\s-]*$`)

// Validator wraps validator/v10 with the report rules and maps failures to
// a validation error listing every offending field.
type Validator struct {
	validate *validator.Validate
}

// NewValidator registers the custom tags and struct rules.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("interference", func(fl validator.FieldLevel) bool {
		t := domain.InterferenceType(fl.Field().String())
		return t == domain.InterferenceOther || t.IsTV() || t.IsInternet()
	})
	v.RegisterStructValidation(validateReportPairing, CreateReportInput{})
	return &Validator{validate: v}
}

// Struct validates in and returns a VALIDATION_FAILED error on failure.
func (v *Validator) Struct(in any) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewInternalError(err)
	}
	fields := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := fields[fe.Field()]; seen {
			continue
		}
		fields[fe.Field()] = fieldMessage(fe)
	}
	return apperrors.NewValidationError("validation failed", map[string]any{"fields": fields})
}

// validateReportPairing enforces that detail blocks match the service type.
func validateReportPairing(sl validator.StructLevel) {
	in, ok := sl.Current().Interface().(CreateReportInput)
	if !ok {
		return
	}
	switch in.ServiceType {
	case domain.ServiceTypeTV, domain.ServiceTypeInternet, domain.ServiceTypeBoth:
	default:
		return
	}

	hasChannel := in.ChannelAffected != nil && strings.TrimSpace(*in.ChannelAffected) != ""
	if in.ServiceType.AffectsTV() != hasChannel {
		sl.ReportError(in.ChannelAffected, "channel_affected", "ChannelAffected", "channel_pairing", string(in.ServiceType))
	}
	if in.ServiceType.AffectsInternet() != (in.InternetDetails != nil) {
		sl.ReportError(in.InternetDetails, "internet_details", "InternetDetails", "internet_pairing", string(in.ServiceType))
	}
	t := in.InterferenceType
	if (t.IsTV() || t.IsInternet()) && !t.CompatibleWith(in.ServiceType) {
		sl.ReportError(in.InterferenceType, "interference_type", "InterferenceType", "interference_pairing", string(in.ServiceType))
	}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "phone":
		return "may only contain digits, spaces and + - ( )"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "interference":
		return "is not a known interference type"
	case "channel_pairing":
		if fe.Param() == string(domain.ServiceTypeInternet) {
			return "must be empty for INTERNET reports"
		}
		return "is required for TV and BOTH reports"
	case "internet_pairing":
		if fe.Param() == string(domain.ServiceTypeTV) {
			return "must be empty for TV reports"
		}
		return "is required for INTERNET and BOTH reports"
	case "interference_pairing":
		return fmt.Sprintf("does not apply to %s reports", fe.Param())
	default:
		return "is invalid"
	}
}
