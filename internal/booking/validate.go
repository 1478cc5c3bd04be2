package booking

import (
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

func newValidator() *validator.Validate {
	v := validator.New()

	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}

	return v
}

//nolint:gochecknoglobals
var validate = newValidator()

func (g *GuestInfo) validate() error {
	if err := validate.Struct(g); err != nil {
		return ErrMissingGuestInfo
	}

	return nil
}
