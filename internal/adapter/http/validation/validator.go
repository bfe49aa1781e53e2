package validation

import (
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"todoapi/internal/core/model/response"
	"todoapi/internal/core/port"
)

// Validator implements port.Validator with go-playground/validator and
// English messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var _ port.Validator = (*Validator)(nil)

func NewValidator() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	translator, found := uni.GetTranslator("en")
	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	v := &Validator{validate: validate, translator: translator}
	v.addCustomValidations()
	v.addCustomTranslations()

	return v
}

// filled and notblank both reject strings that are empty once trimmed; they
// only differ in the message they produce.
func (v *Validator) addCustomValidations() {
	notBlank := func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}

	for _, tag := range []string{"filled", "notblank"} {
		if err := v.validate.RegisterValidation(tag, notBlank); err != nil {
			panic(err)
		}
	}
}

func (v *Validator) addCustomTranslations() {
	messages := map[string]string{
		"required": "{0} is required",
		"filled":   "{0} is required",
		"notblank": "{0} cannot be empty",
	}

	for tag, message := range messages {
		err := v.validate.RegisterTranslation(tag, v.translator, func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		}, func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		})

		if err != nil {
			panic(err)
		}
	}
}

func (v *Validator) ValidateStruct(s interface{}) error {
	return v.validate.Struct(s)
}

func (v *Validator) FormatValidationErrors(err error) []response.ValidationError {
	var errors []response.ValidationError

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors = append(errors, response.ValidationError{
				Field:   strings.ToLower(fieldError.Field()),
				Message: fieldError.Translate(v.translator),
			})
		}
	}

	return errors
}
