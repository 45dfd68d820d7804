package domain

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// validatorInstance is shared so struct information is cached once.
var validatorInstance = validator.New()

var sectionPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

func init() {
	_ = validatorInstance.RegisterValidation("section", validateSection)
	_ = validatorInstance.RegisterValidation("entitytype", validateEntityType)
}

// validateSection accepts lower-case section keys. They double as file names
// for content overrides, so separators and dots are rejected.
func validateSection(fl validator.FieldLevel) bool {
	return sectionPattern.MatchString(fl.Field().String())
}

func validateEntityType(fl validator.FieldLevel) bool {
	return IsEntityType(fl.Field().String())
}

// Validator returns the shared validator with the domain rules registered.
func Validator() *validator.Validate {
	return validatorInstance
}

// ValidSection reports whether name can be used as a home section key.
func ValidSection(name string) bool {
	return sectionPattern.MatchString(name)
}
