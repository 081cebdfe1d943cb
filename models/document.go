package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// MediaType is the JSON:API media type.
const MediaType = "application/vnd.api+json"

// Document is a decoded JSON:API top-level document.
type Document struct {
	Data     json.RawMessage `json:"data,omitempty"`
	Included []*Resource     `json:"included,omitempty"`
	Links    Links           `json:"links"`
	Meta     map[string]any  `json:"meta,omitempty"`
	Errors   []ErrorObject   `json:"errors,omitempty"`

	index Index
}

// DecodeDocument decodes a response body and indexes its sideloaded
// resources.
func DecodeDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ProtocolError{Detail: fmt.Sprintf("invalid JSON:API document: %v", err)}
	}
	doc.index = NewIndex(doc.Included...)
	return &doc, nil
}

// Primary decodes a single primary resource. Null data returns nil.
func (d *Document) Primary() (*Resource, error) {
	if d == nil || len(d.Data) == 0 || bytes.Equal(bytes.TrimSpace(d.Data), []byte("null")) {
		return nil, nil
	}
	var res Resource
	if err := json.Unmarshal(d.Data, &res); err != nil {
		return nil, &ProtocolError{Detail: fmt.Sprintf("invalid primary data: %v", err)}
	}
	d.index.Add(&res)
	return &res, nil
}

// Collection decodes an array of primary resources in server order.
func (d *Document) Collection() ([]*Resource, error) {
	if d == nil || len(d.Data) == 0 {
		return nil, nil
	}
	var list []*Resource
	if err := json.Unmarshal(d.Data, &list); err != nil {
		return nil, &ProtocolError{Detail: fmt.Sprintf("invalid primary data collection: %v", err)}
	}
	d.index.Add(list...)
	return list, nil
}

// ErrorObject is a JSON:API error object.
type ErrorObject struct {
	ID     string      `json:"id,omitempty"`
	Status flexString  `json:"status,omitempty"`
	Code   flexString  `json:"code,omitempty"`
	Title  string      `json:"title,omitempty"`
	Detail string      `json:"detail,omitempty"`
	Source ErrorSource `json:"source"`
}

// ErrorSource locates the cause of an error in the request document.
type ErrorSource struct {
	Pointer   string `json:"pointer,omitempty"`
	Parameter string `json:"parameter,omitempty"`
}

// Message is the most specific human text the server supplied.
func (e ErrorObject) Message() string {
	switch {
	case e.Detail != "":
		return e.Detail
	case e.Title != "":
		return e.Title
	}
	return string(e.Code)
}

// DecodeErrors extracts the error objects of a failed response. Bodies that
// are not JSON:API documents yield no objects.
func DecodeErrors(data []byte) []ErrorObject {
	var doc struct {
		Errors []ErrorObject `json:"errors"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil
	}
	return doc.Errors
}

// flexString accepts a JSON string or number. Servers disagree on whether
// "status" and "code" are quoted.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = flexString(str)
		return nil
	}
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return fmt.Errorf("expected string or number, got %s", data)
	}
	*s = flexString(data)
	return nil
}
