package hw2

import (
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/osse101/statsgate/internal/domain"
)

type gamertagInput struct {
	Gamertag string `validate:"required,notblank"`
}

type matchIDInput struct {
	MatchID string `validate:"required,notblank"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// fieldMessages maps an input field to the message a caller sees when it is
// missing, so struct names never leak into responses.
var fieldMessages = map[string]string{
	"Gamertag": domain.ErrMsgGamertagRequired,
	"MatchID":  domain.ErrMsgMatchIDRequired,
}

// validateInput checks s and converts the first failure into a bad_request.
func validateInput(s any) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := fieldMessages[verrs[0].Field()]; ok {
			return domain.BadRequest(msg)
		}
	}
	return domain.BadRequest(domain.ErrMsgInvalidRequest)
}
