package client

import (
	"strings"

	"github.com/iancoleman/strcase"

	"evalgo.org/flightasset/models"
)

// validationMessages maps the fields behind a 422 pointer to the message
// shown to the user. Keys are snake_case; pointers in either spelling match.
var validationMessages = map[string]string{
	"x_capacity":       "the X capacity must be a whole number of at least 0",
	"y_capacity":       "the Y capacity must be a whole number of at least 0",
	"x_start_position": "the X start position is not within the parent container",
	"x_end_position":   "the X end position must not be before the X start position and must be within the parent container",
	"y_start_position": "the Y start position is not within the parent container",
	"y_end_position":   "the Y end position must not be before the Y start position and must be within the parent container",
	"parent_container": "the position overlaps another item in the parent container",
	"name":             "the name is invalid or already taken",
}

// describeValidation is the human message for one 422 error object. Objects
// with a pointer we do not recognise pass the server's message through
// untouched.
func describeValidation(obj models.ErrorObject) string {
	field := pointerField(obj.Source.Pointer)
	if msg, ok := validationMessages[field]; ok {
		if detail := obj.Message(); detail != "" {
			return msg + " (" + detail + ")"
		}
		return msg
	}
	if msg := obj.Message(); msg != "" {
		return msg
	}
	return "the request was rejected as invalid"
}

// pointerField extracts the snake_case field name from pointers such as
// /data/attributes/xCapacity or /data/relationships/parent_container.
func pointerField(pointer string) string {
	if pointer == "" {
		return ""
	}
	parts := strings.Split(strings.TrimPrefix(pointer, "/"), "/")
	if len(parts) < 3 || parts[0] != "data" {
		return ""
	}
	if parts[1] != "attributes" && parts[1] != "relationships" {
		return ""
	}
	return strcase.ToSnake(parts[2])
}
