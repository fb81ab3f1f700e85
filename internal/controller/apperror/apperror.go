package apperror

import "errors"

var ErrConfigMissing = errors.New("missing configuration")
var ErrInvalidSelector = errors.New("Invalid price_id")

var ErrSignatureInvalid = errors.New("webhook signature verification failed")
var ErrMalformedEvent = errors.New("malformed webhook event")
