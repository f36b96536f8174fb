package serverutils

import (
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks the validate tags of req.
func ValidateRequest(req interface{}) error {
	return validate.Struct(req)
}
