package validator

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/shandysiswandi/notekeep/internal/pkg/strcase"
)

// ErrTranslatorNotFound is returned when the English translator is missing.
var ErrTranslatorNotFound = errors.New("validator: translator not found")

// V10ValidationError maps snake_case field names to English messages.
type V10ValidationError map[string]string

func (vs V10ValidationError) Error() string {
	if len(vs) == 0 {
		return "validation error"
	}
	//nolint:errchkjson // map[string]string always marshals
	b, _ := json.Marshal(map[string]string(vs))
	return string(b)
}

func (vs V10ValidationError) Values() map[string]string { return vs }

// V10Validator reports failures as V10ValidationError. A `label` struct tag
// renames a field in both the key and the message, so errors can use the
// wire name of a field rather than its Go name.
type V10Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewV10Validator() (*V10Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(labelOf)

	english := en.New()
	trans, ok := ut.New(english, english).GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}
	for _, rule := range customRules {
		if err := rule.register(validate, trans); err != nil {
			return nil, err
		}
	}

	return &V10Validator{validate: validate, translator: trans}, nil
}

func labelOf(f reflect.StructField) string {
	label, _, _ := strings.Cut(f.Tag.Get("label"), ",")
	if label == "-" {
		return ""
	}
	return label
}

func (v *V10Validator) Validate(data any) error {
	err := v.validate.Struct(data)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := make(V10ValidationError, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[strcase.ToLowerSnake(fe.Field())] = fe.Translate(v.translator)
	}
	return out
}
