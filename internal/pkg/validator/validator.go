package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterGinValidators attaches custom validation tags to gin's binding
// engine. Call once at startup before routes are registered.
func RegisterGinValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("cycle", washCycle)
	_ = v.RegisterValidation("halfhour", halfHour)
}

// washCycle accepts the two supported cycle lengths in minutes.
func washCycle(fl validator.FieldLevel) bool {
	d := fl.Field().Int()
	return d == 30 || d == 60
}

// halfhour accepts timestamps aligned to a 30 minute grid.
func halfHour(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(interface{ Unix() int64 })
	if !ok {
		return true
	}
	return t.Unix()%1800 == 0
}
