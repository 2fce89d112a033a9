package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

func formatSchemaConversionError(err schema.ConversionError) string {
	return fmt.Sprintf("%q should be of type %s", err.Key, err.Type)
}

// validationMessages words the struct tag rules used by request payloads.
// Each format receives the quoted field name and the rule parameter.
var validationMessages = map[string]string{
	"required": "%s is required",
	"email":    "%s is not a valid email",
	"gt":       "%s must be greater than %s",
	"gte":      "%s must be greater than or equal to %s",
	"lt":       "%s must be less than %s",
	"lte":      "%s must be less than or equal to %s",
	"ne":       "%s can't be %q",
}

func formatValidationError(err validator.FieldError) string {
	field := fmt.Sprintf("%q", err.Field())

	switch err.Tag() {
	case "max":
		return formatBound(err, "at most")
	case "min":
		return formatBound(err, "at least")
	case "oneof":
		quoted := strings.Fields(err.Param())
		for i, p := range quoted {
			quoted[i] = fmt.Sprintf("%q", p)
		}
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(quoted, ", "))
	}

	format, ok := validationMessages[err.Tag()]
	if !ok {
		return field + " is invalid"
	}
	if strings.Count(format, "%") == 1 {
		return fmt.Sprintf(format, field)
	}
	return fmt.Sprintf(format, field, err.Param())
}

// formatBound words min/max failures by kind: numbers compare by value,
// strings by characters and slices by elements.
func formatBound(err validator.FieldError, comparison string) string {
	field := err.Field()

	//exhaustive:ignore
	switch err.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return fmt.Sprintf("%q must be %s %s", field, comparison, err.Param())
	}

	unit := "character"
	if err.Kind() == reflect.Slice {
		unit = "value"
	}
	if err.Param() != "1" {
		unit += "s"
	}
	return fmt.Sprintf("%q must have %s %s %s", field, comparison, err.Param(), unit)
}
