package validator

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/training/practice/internal/apperror"
)

var (
	// trans is the singleton English translator for validation errors.
	trans     ut.Translator
	setupOnce sync.Once
)

// Setup registers the validator with English translations on Gin's binding engine.
// Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}

		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("notblank", validators.NotBlank)

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		_ = v.RegisterTranslation("notblank", trans,
			func(t ut.Translator) error {
				return t.Add("notblank", "{0} must not be blank", true)
			},
			func(t ut.Translator, fe govalidator.FieldError) string {
				msg, err := t.T("notblank", fe.Field())
				if err != nil {
					return fe.Error()
				}
				return msg
			},
		)
	})
}

// FieldErrors converts a validation error into ordered field errors.
// ok is false when err is not a validation error.
func FieldErrors(err error) (fields []apperror.FieldError, ok bool) {
	var ve govalidator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil, false
	}
	fields = make([]apperror.FieldError, 0, len(ve))
	for _, fe := range ve {
		msg := fe.Error()
		if trans != nil {
			msg = fe.Translate(trans)
		}
		fields = append(fields, apperror.FieldError{Field: fe.Field(), Message: msg})
	}
	return fields, true
}

// Bind binds and validates the request body into dst.
// Constraint failures become a validation error; a body that cannot be
// decoded becomes a bad request.
func Bind(c *gin.Context, dst any) error {
	Setup()
	if err := c.ShouldBindJSON(dst); err != nil {
		return translate(err)
	}
	return nil
}

// Struct validates v against its binding tags outside of a request.
func Struct(v any) error {
	Setup()
	if err := binding.Validator.ValidateStruct(v); err != nil {
		return translate(err)
	}
	return nil
}

func translate(err error) error {
	if fields, ok := FieldErrors(err); ok {
		return apperror.Validation(fields)
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return apperror.BadRequest("Request body is required")
	case errors.As(err, &syntaxErr):
		return apperror.BadRequest("Malformed JSON request")
	case errors.As(err, &typeErr):
		return apperror.BadRequest("Invalid value for field '%s'", typeErr.Field)
	default:
		return apperror.BadRequest("Malformed JSON request: %s", err.Error())
	}
}
