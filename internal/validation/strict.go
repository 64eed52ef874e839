package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/mark3labs/teacherhub/internal/form"
)

// IncompleteMessage is the submission failure shown when strict checks block a submit.
const IncompleteMessage = "Please complete all required fields before submitting."

var (
	// custom validation tags
	phoneTag = "phone"
	adultTag = "adult"
)

// Schema validates a whole document against its struct tags.
type Schema struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewSchema builds the document schema. now drives the age check; nil uses time.Now.
func NewSchema(now func() time.Time) *Schema {
	if now == nil {
		now = time.Now
	}
	v := validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	// Use JSON tag names so ledger keys match patch paths.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	age := Age(now)
	_ = v.RegisterValidation(phoneTag, func(fl validator.FieldLevel) bool {
		return IsPhone(fl.Field().String())
	})
	_ = v.RegisterValidation(adultTag, func(fl validator.FieldLevel) bool {
		return age(fl.Field().String()) == ""
	})

	s := &Schema{validate: v, translator: trans}
	s.registerCustomTranslations(phoneTag, adultTag)
	return s
}

// registerCustomTranslations attaches messages for the custom tags. The
// register func is a noop because the english defaults are already loaded.
func (s *Schema) registerCustomTranslations(tags ...string) {
	registerFn := func(ut.Translator) error { return nil }
	for _, tag := range tags {
		_ = s.validate.RegisterTranslation(tag, s.translator, registerFn, translateCustom)
	}
}

func translateCustom(_ ut.Translator, fe validator.FieldError) string {
	switch fe.Tag() {
	case phoneTag:
		return fmt.Sprintf("%s must be a valid phone number", fe.Field())
	case adultTag:
		return "Teacher must be at least 18 years old"
	default:
		return ""
	}
}

// Check validates doc and returns its findings keyed by dotted JSON path,
// e.g. "contactInfo.address.city". An empty ledger means the document is
// complete.
func (s *Schema) Check(doc *form.Document) Ledger {
	out := Ledger{}
	err := s.validate.Struct(doc)
	if err == nil {
		return out
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out.Set("document", err.Error())
		return out
	}
	for _, fe := range verrs {
		out.Set(fieldPath(fe.Namespace()), fe.Translate(s.translator))
	}
	return out
}

// fieldPath drops the root type name from a validator namespace.
func fieldPath(namespace string) string {
	if i := strings.Index(namespace, "."); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}
