package echoweb

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/academia/core"
)

type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Next     string `json:"-" form:"next"`
}

func (f *LoginForm) Validate(validate *validator.Validate, translator ut.Translator) error {
	f.Email = core.CleanString(f.Email, true /* lower */)
	if err := validate.Struct(f); err != nil {
		return core.TranslateValidationErrors(err, translator)
	}
	return nil
}

type ContactForm struct {
	Name    string `json:"name" form:"name" validate:"required"`
	Email   string `json:"email" form:"email" validate:"required,email"`
	Subject string `json:"subject" form:"subject" validate:"required"`
	Message string `json:"message" form:"message" validate:"required"`
}

func (f *ContactForm) Validate(validate *validator.Validate, translator ut.Translator) error {
	f.Name = core.CleanString(f.Name)
	f.Email = core.CleanString(f.Email, true /* lower */)
	f.Subject = core.CleanString(f.Subject)
	f.Message = core.CleanString(f.Message)
	if err := validate.Struct(f); err != nil {
		return core.TranslateValidationErrors(err, translator)
	}
	return nil
}
