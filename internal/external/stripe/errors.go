package stripe

import (
	"errors"

	stripego "github.com/stripe/stripe-go/v82"
)

// apiError keeps the provider's human readable message as the error text.
type apiError struct {
	msg string
	err error
}

func (e *apiError) Error() string { return e.msg }
func (e *apiError) Unwrap() error { return e.err }

func providerError(err error) error {
	var se *stripego.Error
	if errors.As(err, &se) && se.Msg != "" {
		return &apiError{msg: se.Msg, err: err}
	}
	return err
}
