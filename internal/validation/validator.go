// Package validation provides custom validators for the application
package validation

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var airportCodeRe = regexp.MustCompile(`^[A-Z]{3}$`)

// Initialize registers all custom validators
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("airportcode", validateAirportCode)
		if err != nil {
			panic(err)
		}
	}
}

// validateAirportCode checks for a three-letter IATA airport code
func validateAirportCode(fl validator.FieldLevel) bool {
	return airportCodeRe.MatchString(fl.Field().String())
}
