package graph

import (
	graphql "github.com/graph-gophers/graphql-go"

	"habittracker/internal/validation"
)

type RegisterInput struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	Username  string `json:"username"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AddHabitInput struct {
	Title       string       `json:"title"`
	Description *string      `json:"description"`
	StartDate   graphql.Time `json:"startDate"`
}

type UpdateHabitInput struct {
	ID          int32         `json:"id"`
	Title       *string       `json:"title"`
	Description *string       `json:"description"`
	StartDate   *graphql.Time `json:"startDate"`
}

type ToggleEntryInput struct {
	HabitID int32 `json:"habitId"`
	Year    int32 `json:"year"`
	Month   int32 `json:"month"`
	Day     int32 `json:"day"`
}

type EntriesForMonthInput struct {
	HabitID int32 `json:"habitId"`
	Year    int32 `json:"year"`
	Month   int32 `json:"month"`
}

type UpdatePasswordInput struct {
	Password string `json:"password"`
}

type UpdateEmailInput struct {
	Email string `json:"email"`
}

type UpdateUsernameInput struct {
	Username string `json:"username"`
}

type UpdateMeInput struct {
	Firstname *string `json:"firstname"`
	Lastname  *string `json:"lastname"`
}

type DeleteMyAccountInput struct {
	Password string `json:"password"`
}

const (
	passwordRule = "min=8,max=64"
	usernameRule = "min=3,max=32,username"
	nameRule     = "min=1,max=32,alpha"
	titleRule    = "max=64"
	descRule     = "omitempty,max=255"
	monthRule    = "gte=0,lte=12"
)

// registerRules 输入校验规则表，按 Go 字段名索引
func registerRules(v *validation.Validator) {
	v.Register(RegisterInput{}, validation.Rules{
		"Email":     "required,email",
		"Password":  passwordRule,
		"Username":  usernameRule,
		"Firstname": nameRule,
		"Lastname":  nameRule,
	})
	v.Register(LoginInput{}, validation.Rules{
		"Email":    "required,email",
		"Password": "required",
	})
	v.Register(AddHabitInput{}, validation.Rules{
		"Title":       "required," + titleRule,
		"Description": descRule,
	})
	v.Register(UpdateHabitInput{}, validation.Rules{
		"Title":       "omitempty," + titleRule,
		"Description": descRule,
	})
	v.Register(ToggleEntryInput{}, validation.Rules{
		"Year":  "gt=0",
		"Month": monthRule,
		"Day":   "gte=0,lte=31",
	})
	v.Register(EntriesForMonthInput{}, validation.Rules{
		"Year":  "gt=0",
		"Month": monthRule,
	})
	v.Register(UpdatePasswordInput{}, validation.Rules{
		"Password": passwordRule,
	})
	v.Register(UpdateEmailInput{}, validation.Rules{
		"Email": "required,email",
	})
	v.Register(UpdateUsernameInput{}, validation.Rules{
		"Username": usernameRule,
	})
	v.Register(UpdateMeInput{}, validation.Rules{
		"Firstname": "omitempty," + nameRule,
		"Lastname":  "omitempty," + nameRule,
	})
	v.Register(DeleteMyAccountInput{}, validation.Rules{
		"Password": "required",
	})
}
