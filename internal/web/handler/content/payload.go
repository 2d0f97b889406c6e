package content

import (
	"bytes"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// client visible validation messages.
const (
	MsgBadRequest        = "Bad request"
	MsgNameNotString     = "Content name should be a string"
	MsgNameRequired      = "Content name is required"
	MsgNameNotStringPut  = "Content name not a string"
	MsgLocationNotString = "Location not a string"
	MsgNameTooLong       = "Content name too long"
	MsgLocationTooLong   = "Location too long"
	MsgSearchNotString   = "Search value should be a string"
)

const (
	keyName     = "name"
	keyLocation = "location"
	keyValue    = "value"
)

// ValidationError is a rejected request payload.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) *ValidationError {
	return &ValidationError{Message: msg}
}

// object is a decoded JSON object with its values left raw.
type object map[string]json.RawMessage

// contentInput is a validated create or update payload.
type contentInput struct {
	Name     string  `validate:"max=120"`
	Location *string `validate:"omitempty,max=120"`
}

// searchInput is a validated search payload.
type searchInput struct {
	Value string
}

// decodeObject decodes body into a JSON object. With allowEmpty false an
// empty object is rejected like any other non-object body.
func decodeObject(body []byte, allowEmpty bool) (object, error) {
	var obj object

	if err := json.Unmarshal(body, &obj); err != nil || obj == nil {
		return nil, invalid(MsgBadRequest)
	}

	if len(obj) == 0 && !allowEmpty {
		return nil, invalid(MsgBadRequest)
	}

	return obj, nil
}

// stringField reads key from obj. present reports whether the key exists,
// ok whether its value is a JSON string. null is not a string.
func (o object) stringField(key string) (value string, present, ok bool) {
	raw, present := o[key]
	if !present {
		return "", false, false
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '"' {
		return "", true, false
	}

	if err := json.Unmarshal(raw, &value); err != nil {
		return "", true, false
	}

	return value, true, true
}

// location reads the optional location field. With nullIsAbsent a null
// location is read as a missing one.
func (o object) location(nullIsAbsent bool) (*string, error) {
	loc, present, ok := o.stringField(keyLocation)

	switch {
	case !present:
		return nil, nil
	case !ok && nullIsAbsent && bytes.Equal(bytes.TrimSpace(o[keyLocation]), []byte("null")):
		return nil, nil
	case !ok:
		return nil, invalid(MsgLocationNotString)
	default:
		return &loc, nil
	}
}

// parseCreate validates a create payload.
func parseCreate(v *validator.Validate, obj object) (contentInput, error) {
	name, _, ok := obj.stringField(keyName)
	if !ok {
		return contentInput{}, invalid(MsgNameNotString)
	}

	loc, err := obj.location(true)
	if err != nil {
		return contentInput{}, err
	}

	in := contentInput{Name: name, Location: loc}

	return in, checkLimits(v, in)
}

// parseUpdate validates an update payload. An update replaces the whole
// record, so a missing location clears the stored one. null is rejected.
func parseUpdate(v *validator.Validate, obj object) (contentInput, error) {
	name, present, ok := obj.stringField(keyName)

	switch {
	case !present:
		return contentInput{}, invalid(MsgNameRequired)
	case !ok:
		return contentInput{}, invalid(MsgNameNotStringPut)
	}

	loc, err := obj.location(false)
	if err != nil {
		return contentInput{}, err
	}

	in := contentInput{Name: name, Location: loc}

	return in, checkLimits(v, in)
}

// parseSearch validates a search payload.
func parseSearch(obj object) (searchInput, error) {
	value, _, ok := obj.stringField(keyValue)
	if !ok {
		return searchInput{}, invalid(MsgSearchNotString)
	}

	return searchInput{Value: value}, nil
}

// checkLimits applies the column widths of the content table.
func checkLimits(v *validator.Validate, in contentInput) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return err //nolint:wrapcheck
	}

	if validationErrors[0].Field() == "Location" {
		return invalid(MsgLocationTooLong)
	}

	return invalid(MsgNameTooLong)
}
