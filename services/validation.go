// services/validation.go
package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"nird-resistance/models"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/unicode/norm"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("mission", func(fl validator.FieldLevel) bool {
		return models.Mission(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("warrior_status", func(fl validator.FieldLevel) bool {
		return models.WarriorStatus(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("village", func(fl validator.FieldLevel) bool {
		return models.Village(fl.Field().String()).Valid()
	})
	return v
}

// validateStruct runs the struct tags and converts failures into a ValidationError.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &ValidationError{cause: fmt.Errorf("validation failed: %w", err)}
	}
	out := &ValidationError{cause: err}
	for _, fe := range ve {
		out.Fields = append(out.Fields, FieldError{Field: fieldPath(fe), Message: fieldMessage(fe)})
	}
	return out
}

// fieldPath drops the top-level struct name: "CreateWarriorInput.missionData.skills[0]" → "missionData.skills[0]".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	field := fieldPath(fe)
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s cannot have more than %s entries", field, fe.Param())
		}
		return fmt.Sprintf("%s cannot exceed %s characters", field, fe.Param())
	case "email":
		return "Please enter a valid email"
	case "mission":
		return fmt.Sprintf("%s must be one of contact, donate, volunteer, info", field)
	case "warrior_status":
		return fmt.Sprintf("%s must be one of active, inactive, veteran", field)
	case "village":
		return fmt.Sprintf("%s must be one of Principal, Nord, Sud, Est, Ouest, Central", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, fe.Tag())
	}
}

// normalizeName trims and NFC-normalises so length limits count what the user sees.
func normalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizeMissionData keeps only the fields that belong to the mission's variant.
func normalizeMissionData(mission models.Mission, data models.MissionData) models.MissionData {
	switch mission {
	case models.MissionContact, models.MissionInfo:
		return models.MissionData{Message: strings.TrimSpace(data.Message)}
	case models.MissionDonate:
		return models.MissionData{Amount: data.Amount, Recurring: data.Recurring}
	case models.MissionVolunteer:
		skills := make([]string, 0, len(data.Skills))
		for _, s := range data.Skills {
			if s = strings.TrimSpace(s); s != "" {
				skills = append(skills, s)
			}
		}
		return models.MissionData{Skills: skills}
	default:
		return models.MissionData{}
	}
}
