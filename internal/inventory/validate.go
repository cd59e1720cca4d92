package inventory

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/supplysight/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if name := f.Tag.Get("arg"); name != "" {
			return name
		}
		return f.Name
	})
	return v
}

type updateDemandInput struct {
	ID        string `arg:"id" validate:"required"`
	Warehouse string `arg:"warehouse" validate:"required"`
	Demand    int    `arg:"demand" validate:"min=0,max=2147483647"`
}

type transferInput struct {
	ID   string `arg:"id" validate:"required"`
	Qty  int    `arg:"qty" validate:"gt=0,max=2147483647"`
	From string `arg:"from" validate:"required"`
	To   string `arg:"to" validate:"required,nefield=From"`
}

type listInput struct {
	Page     int    `arg:"page" validate:"min=1"`
	PageSize int    `arg:"pageSize" validate:"min=1"`
}

// validateInput runs struct validation and reports the first failure as a
// *model.ValidationError.
func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &model.ValidationError{Message: err.Error()}
	}
	fe := fieldErrs[0]
	return &model.ValidationError{Field: fe.Field(), Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Param() == "0" {
			return "must not be negative"
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "gt":
		if fe.Param() == "0" {
			return "must be positive"
		}
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s", fe.Param())
	case "nefield":
		return "must differ from the source warehouse"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
