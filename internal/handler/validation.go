package handler

import (
	"fmt"
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

func username(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

// RegisterValidation registers the custom binding validators used by the request
// structs, currently only the username format check.
func RegisterValidation() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return v.RegisterValidation("username", username)
	}
	return fmt.Errorf("error getting validation engine")
}
