package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	ClockLayout = "15:04"
	DateLayout  = "2006-01-02"
)

// ValidationError represents a validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

var validate = newValidator()

func init() {
	if err := RegisterBindingValidators(); err != nil {
		panic(fmt.Sprintf("register binding validators: %v", err))
	}
}

// newValidator shares gin's "binding" tag so request structs are validated by
// the same rules whether or not they went through ShouldBindJSON.
func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName("binding")
	if err := registerCustom(v); err != nil {
		panic(fmt.Sprintf("register validators: %v", err))
	}
	return v
}

func registerCustom(v *validator.Validate) error {
	if err := v.RegisterValidation("hhmm", isClock); err != nil {
		return err
	}
	return v.RegisterValidation("isodate", isDate)
}

// RegisterBindingValidators adds the custom tags to gin's binding engine so
// they work in `binding:"..."` struct tags.
func RegisterBindingValidators() error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		return registerCustom(v)
	}
	return nil
}

func isClock(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) != len(ClockLayout) {
		return false
	}
	_, err := time.Parse(ClockLayout, s)
	return err == nil
}

func isDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(DateLayout, fl.Field().String())
	return err == nil
}

// ValidateStruct validates a struct and returns formatted errors
func ValidateStruct(s interface{}) []ValidationError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Message: err.Error()}}
	}

	return formatErrors(verrs)
}

func formatErrors(verrs validator.ValidationErrors) []ValidationError {
	errs := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, ValidationError{
			Field:   fe.Namespace(),
			Tag:     fe.Tag(),
			Message: getErrorMessage(fe),
		})
	}
	return errs
}

func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return err.Field() + " must be a valid email address"
	case "min":
		return err.Field() + " must be at least " + err.Param()
	case "max":
		return err.Field() + " must be at most " + err.Param()
	case "gte":
		return err.Field() + " must be greater than or equal to " + err.Param()
	case "lte":
		return err.Field() + " must be less than or equal to " + err.Param()
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "hhmm":
		return err.Field() + " must be a time in HH:mm format"
	case "isodate":
		return err.Field() + " must be a date in YYYY-MM-DD format"
	default:
		return err.Field() + " is invalid"
	}
}

// RespondWithValidationErrors sends validation errors as JSON response
func RespondWithValidationErrors(c *gin.Context, errs []ValidationError) {
	c.JSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:   "validation failed",
		Details: errs,
	})
}

// BindJSON decodes and validates the request body into dst. On failure it
// writes the 400 response itself and returns false.
func BindJSON(c *gin.Context, dst interface{}) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		RespondWithValidationErrors(c, formatErrors(verrs))
		return false
	}

	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
	return false
}
