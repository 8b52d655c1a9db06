package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/topic-distribution-admin/internal/models"
)

// FieldErrors maps a form field name to its message. The key "server"
// carries the failure of the remote call.
type FieldErrors map[string]string

// ServerErrorKey is the form-level error slot.
const ServerErrorKey = "server"

// NewValidator returns a validator that reports json field names and knows
// the topic bank label tags.
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("worktype_label", func(fl validator.FieldLevel) bool {
		_, ok := models.TopicTypeFromLabel(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("source_label", func(fl validator.FieldLevel) bool {
		_, ok := models.TopicSourceFromLabel(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// collectFieldErrors runs struct validation and translates every violation
// through messages. Fields without a message get fallback.
func collectFieldErrors(v *validator.Validate, draft interface{}, messages map[string]string, fallback string) (FieldErrors, error) {
	err := v.Struct(draft)
	if err == nil {
		return nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}
	out := FieldErrors{}
	for _, fe := range verrs {
		field := fe.Field()
		if _, seen := out[field]; seen {
			continue
		}
		if msg, ok := messages[field]; ok {
			out[field] = msg
			continue
		}
		out[field] = fallback
	}
	return out, nil
}
