package request

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnsupportedType is returned when a member holds a truthy value of a
// type the field cannot take, such as {"title": 5}.
var ErrUnsupportedType = errors.New("unsupported value type")

// CreateTodoRequest and UpdateTodoRequest are the validated inputs of the
// service. Nil fields were not supplied.

type CreateTodoRequest struct {
	Title       *string `validate:"required,filled"`
	Description *string
}

type UpdateTodoRequest struct {
	Title       *string `validate:"omitnil,notblank"`
	Description *string
	Completed   *bool
}

// CreateTodoBody is the JSON body of a create call.
type CreateTodoBody struct {
	Title       Value `json:"title"`
	Description Value `json:"description"`
}

// Request maps the body onto a CreateTodoRequest. Falsy members count as not
// supplied, so {"title": false} reads as a missing title.
func (b CreateTodoBody) Request() (CreateTodoRequest, error) {
	var req CreateTodoRequest
	var err error

	if req.Title, err = b.Title.truthyText("title"); err != nil {
		return CreateTodoRequest{}, err
	}

	if req.Description, err = b.Description.truthyText("description"); err != nil {
		return CreateTodoRequest{}, err
	}

	return req, nil
}

// UpdateTodoBody is the JSON body of an update call.
type UpdateTodoBody struct {
	Title       Value `json:"title"`
	Description Value `json:"description"`
	Completed   Value `json:"completed"`
}

// Request maps the body onto an UpdateTodoRequest. Every member that is
// present takes part, null included: a falsy title becomes "" and fails
// validation, a falsy description clears it, and completed is coerced to
// its truthiness.
func (b UpdateTodoBody) Request() (UpdateTodoRequest, error) {
	var req UpdateTodoRequest
	var err error

	if req.Title, err = b.Title.presentText("title"); err != nil {
		return UpdateTodoRequest{}, err
	}

	if req.Description, err = b.Description.presentText("description"); err != nil {
		return UpdateTodoRequest{}, err
	}

	if b.Completed.Present {
		completed := b.Completed.Truthy()
		req.Completed = &completed
	}

	return req, nil
}

// Value is one member of a JSON object as the client sent it. Present is set
// whenever the key appears, even with a null value.
type Value struct {
	Present bool
	raw     any
}

func (v *Value) UnmarshalJSON(data []byte) error {
	v.Present = true
	return json.Unmarshal(data, &v.raw)
}

// Truthy applies JavaScript truthiness: absent, null, false, 0 and "" are
// false, every other value is true.
func (v Value) Truthy() bool {
	switch x := v.raw.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	default:
		return true
	}
}

// Text returns the member as a string. Falsy members read as "".
func (v Value) Text(field string) (string, error) {
	if s, ok := v.raw.(string); ok {
		return s, nil
	}

	if !v.Truthy() {
		return "", nil
	}

	return "", fmt.Errorf("%s: %w", field, ErrUnsupportedType)
}

func (v Value) truthyText(field string) (*string, error) {
	if !v.Truthy() {
		return nil, nil
	}

	return v.presentText(field)
}

func (v Value) presentText(field string) (*string, error) {
	if !v.Present {
		return nil, nil
	}

	s, err := v.Text(field)
	if err != nil {
		return nil, err
	}

	return &s, nil
}
