package complaint

import (
	"complainthub/backend/internal/models"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	validate   *validator.Validate
	translator ut.Translator

	categoryTag  = "category"
	categoryText = "{0} must be one of the listed categories"

	requiredText = "{0} is required"
)

func init() {
	enLocale := en.New()
	translator, _ = ut.New(enLocale, enLocale).GetTranslator("en")

	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Report fields by their JSON names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(categoryTag, func(fl validator.FieldLevel) bool {
		return models.Category(fl.Field().String()).Valid()
	})
	registerTranslation(categoryTag, categoryText, false)
	registerTranslation("required", requiredText, true)
}

func registerTranslation(tag, text string, override bool) {
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, override) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// NewComplaint is the input of Service.Create.
type NewComplaint struct {
	Title       string   `json:"title" form:"title" validate:"required"`
	Description string   `json:"description" form:"description" validate:"required"`
	Category    string   `json:"category" form:"category" validate:"required,category"`
	Priority    string   `json:"priority" form:"priority"`
	Uploads     []Upload `json:"-" form:"-"`
}

// Validate trims the text fields and checks them. Priority is never rejected; see
// ResolvePriority.
func (nc *NewComplaint) Validate() error {
	nc.Title = strings.TrimSpace(nc.Title)
	nc.Description = strings.TrimSpace(nc.Description)
	nc.Category = strings.TrimSpace(nc.Category)
	return translateValidation(validate.Struct(nc))
}

// ResolvePriority returns p when it is a known priority and fallback otherwise.
func ResolvePriority(p string, fallback models.Priority) models.Priority {
	if pr := models.Priority(strings.TrimSpace(p)); pr.Valid() {
		return pr
	}
	return fallback
}

func translateValidation(err error) error {
	if err == nil {
		return nil
	}
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return newUnexpectedError("validate input", err)
	}

	msg := "Invalid input"
	fields := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		fields[fe.Field()] = fe.Translate(translator)
		switch {
		case fe.Tag() == "required":
			msg = "Please provide title, description and category"
		case fe.Tag() == categoryTag && msg == "Invalid input":
			msg = "Invalid category"
		}
	}
	return newValidationError(msg, fields)
}
