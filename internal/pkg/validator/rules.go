package validator

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type rule struct {
	tag     string
	message string // {0} is the field name
	check   validator.Func
}

// customRules are the domain tags on top of the validator built-ins.
var customRules = []rule{
	{
		tag:     "authmode",
		message: "{0} must be either signup or signin",
		check: func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "signup" || s == "signin"
		},
	},
}

func (r rule) register(v *validator.Validate, trans ut.Translator) error {
	if err := v.RegisterValidation(r.tag, r.check); err != nil {
		return err
	}
	return v.RegisterTranslation(r.tag, trans,
		func(t ut.Translator) error { return t.Add(r.tag, r.message, false) },
		func(t ut.Translator, fe validator.FieldError) string {
			msg, err := t.T(fe.Tag(), fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}
