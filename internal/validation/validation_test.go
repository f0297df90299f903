package validation

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	Username  string  `json:"username"`
	Firstname *string `json:"firstname"`
	Year      int32   `json:"year"`
}

func newTestValidator() *Validator {
	v := New()
	v.Register(signupInput{}, Rules{
		"Email":     "required,email",
		"Password":  "min=8,max=64",
		"Username":  "min=3,max=32,username",
		"Firstname": "omitempty,min=1,max=32,alpha",
		"Year":      "gt=0",
	})
	return v
}

func validInput() signupInput {
	return signupInput{Email: "a@b.co", Password: "password1", Username: "alice_1", Year: 2020}
}

func TestValidInputPasses(t *testing.T) {
	assert.NoError(t, newTestValidator().Struct(validInput()))
}

func TestViolationsAreAggregated(t *testing.T) {
	in := validInput()
	in.Email = "nope"
	in.Password = "short"
	in.Year = 0

	err := newTestValidator().Struct(in)
	require.Error(t, err)
	assert.Equal(t, ErrorMessage, err.Error())

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 3)

	byProperty := map[string]FieldError{}
	for _, f := range verr.Fields {
		byProperty[f.Property] = f
	}

	assert.Equal(t, "email must be an email", byProperty["email"].Constraints["email"])
	assert.Equal(t, "nope", byProperty["email"].Value)
	assert.Equal(t, "password must be longer than or equal to 8 characters", byProperty["password"].Constraints["min"])
	assert.Nil(t, byProperty["password"].Value, "passwords are never echoed")
	assert.Equal(t, "year must be a positive number", byProperty["year"].Constraints["gt"])
	assert.Nil(t, byProperty["year"].Value, "zero values are not echoed")
}

func TestUsernameRule(t *testing.T) {
	v := newTestValidator()

	for _, name := range []string{"alice", "a_b_c", "Bob99", "x1_y2"} {
		in := validInput()
		in.Username = name
		assert.NoError(t, v.Struct(in), name)
	}

	for _, name := range []string{"1alice", "_alice", "alice_", "al__ice", "al-ice", "ab"} {
		in := validInput()
		in.Username = name
		assert.Error(t, v.Struct(in), name)
	}
}

func TestOptionalPointerFields(t *testing.T) {
	v := newTestValidator()

	in := validInput()
	assert.NoError(t, v.Struct(in), "nil optional field is skipped")

	name := "Al1ce"
	in.Firstname = &name
	err := v.Struct(in)
	require.Error(t, err)

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "firstname", verr.Fields[0].Property)
	assert.Contains(t, verr.Fields[0].Constraints, "alpha")
}

func TestExtensionsSerialize(t *testing.T) {
	in := validInput()
	in.Email = ""
	err := newTestValidator().Struct(in)

	var verr *Error
	require.True(t, errors.As(err, &verr))

	raw, jerr := json.Marshal(verr.Extensions())
	require.NoError(t, jerr)
	assert.JSONEq(t,
		`{"code":"BAD_USER_INPUT","validationErrors":[{"property":"email","constraints":{"required":"email should not be empty"}}]}`,
		string(raw),
	)
}

func TestExtensionsEchoOffendingValue(t *testing.T) {
	in := validInput()
	in.Email = "nope"
	err := newTestValidator().Struct(in)

	var verr *Error
	require.True(t, errors.As(err, &verr))

	raw, jerr := json.Marshal(verr.Extensions())
	require.NoError(t, jerr)
	assert.JSONEq(t,
		`{"code":"BAD_USER_INPUT","validationErrors":[{"property":"email","value":"nope","constraints":{"email":"email must be an email"}}]}`,
		string(raw),
	)
}
