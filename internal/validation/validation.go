package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9]*(?:_[A-Za-z0-9]+)*$`)

// Rules maps a field name to a validator rule string, e.g. "min=8,max=64".
type Rules map[string]string

// Validator checks input structs against rule tables registered per type.
// The structs themselves carry no validation tags.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report fields by their wire name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return &Validator{v: v}
}

// Register attaches rules to the type of sample.
func (v *Validator) Register(sample interface{}, rules Rules) {
	v.v.RegisterStructValidationMapRules(rules, sample)
}

// Struct validates s and returns *Error listing every violation.
func (v *Validator) Struct(s interface{}) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &Error{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, FieldError{
			Property:    fe.Field(),
			Value:       echoValue(fe),
			Constraints: map[string]string{fe.Tag(): message(fe)},
		})
	}
	return out
}

// echoValue 返回要回显给客户端的值，空值和密码不回显
func echoValue(fe validator.FieldError) interface{} {
	if isSecret(fe.Field()) {
		return nil
	}
	value := fe.Value()
	if value == nil || reflect.ValueOf(value).IsZero() {
		return nil
	}
	return value
}

func isSecret(field string) bool {
	return strings.Contains(strings.ToLower(field), "password")
}
