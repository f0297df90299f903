package validation

import (
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

type messageFunc func(field, param string, isString bool) string

var messages = map[string]messageFunc{
	"required": func(field, _ string, _ bool) string {
		return fmt.Sprintf("%s should not be empty", field)
	},
	"email": func(field, _ string, _ bool) string {
		return fmt.Sprintf("%s must be an email", field)
	},
	"alpha": func(field, _ string, _ bool) string {
		return fmt.Sprintf("%s must contain only letters (a-zA-Z)", field)
	},
	"username": func(field, _ string, _ bool) string {
		return fmt.Sprintf("%s must start with a letter and contain only letters, numbers and single underscores", field)
	},
	"min": func(field, param string, isString bool) string {
		if isString {
			return fmt.Sprintf("%s must be longer than or equal to %s characters", field, param)
		}
		return fmt.Sprintf("%s must not be less than %s", field, param)
	},
	"max": func(field, param string, isString bool) string {
		if isString {
			return fmt.Sprintf("%s must be shorter than or equal to %s characters", field, param)
		}
		return fmt.Sprintf("%s must not be greater than %s", field, param)
	},
	"gt": func(field, param string, _ bool) string {
		if param == "0" {
			return fmt.Sprintf("%s must be a positive number", field)
		}
		return fmt.Sprintf("%s must be greater than %s", field, param)
	},
	"gte": func(field, param string, _ bool) string {
		return fmt.Sprintf("%s must not be less than %s", field, param)
	},
	"lte": func(field, param string, _ bool) string {
		return fmt.Sprintf("%s must not be greater than %s", field, param)
	},
}

func message(fe validator.FieldError) string {
	build, ok := messages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
	return build(fe.Field(), fe.Param(), fe.Kind() == reflect.String)
}
