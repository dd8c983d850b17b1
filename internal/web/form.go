package web

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/message"

	"github.com/vbonduro/photoalbum/internal/i18n"
	"github.com/vbonduro/photoalbum/internal/service"
)

// PhotoForm is the upload form. FileName is the client's name for the
// uploaded file and is empty when no file was sent.
type PhotoForm struct {
	FileName    string `form:"photo" validate:"required,image_file"`
	Description string `form:"description" validate:"max=2000"`
	Keywords    string `form:"keywords" validate:"max=500"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// formValidator returns the shared validator with the album's custom tags.
func formValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
		// Only fails for an empty tag or a nil func.
		_ = validate.RegisterValidation("image_file", func(fl validator.FieldLevel) bool {
			return service.AllowedFileName(fl.Field().String())
		})
	})
	return validate
}

// Validate checks the form and returns the translated error of each invalid
// field keyed by its form name. A valid form yields nil.
func (f *PhotoForm) Validate(p *message.Printer) map[string]string {
	err := formValidator().Struct(f)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"photo": p.Sprintf(i18n.MsgSelectImage)}
	}

	errs := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		field := fe.Field()
		if _, seen := errs[field]; seen {
			continue
		}
		switch fe.Tag() {
		case "required":
			errs[field] = p.Sprintf(i18n.MsgImageRequired)
		case "image_file":
			errs[field] = p.Sprintf(i18n.MsgSelectImage)
		case "max":
			errs[field] = p.Sprintf(i18n.MsgFieldTooLong, fieldLabel(p, field))
		default:
			errs[field] = fe.Error()
		}
	}
	return errs
}

func fieldLabel(p *message.Printer, field string) string {
	switch field {
	case "description":
		return p.Sprintf(i18n.MsgDescription)
	case "keywords":
		return p.Sprintf(i18n.MsgKeys)
	default:
		return p.Sprintf(i18n.MsgImage)
	}
}
