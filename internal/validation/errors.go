package validation

const ErrorMessage = "Argument Validation Error"

type FieldError struct {
	Property    string            `json:"property"`
	Value       interface{}       `json:"value,omitempty"`
	Constraints map[string]string `json:"constraints"`
}

// Error aggregates every violation of one input. Its extensions are merged
// into the GraphQL error.
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	return ErrorMessage
}

func (e *Error) Extensions() map[string]interface{} {
	return map[string]interface{}{
		"code":             "BAD_USER_INPUT",
		"validationErrors": e.Fields,
	}
}
