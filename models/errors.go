package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Process exit codes. Each error kind has its own code; two kinds never
// share one.
const (
	ExitOK               = 0
	ExitInternal         = 1
	ExitGeneral          = 2
	ExitInput            = 3
	ExitInteractiveOnly  = 4
	ExitCredentials      = 5
	ExitValidation       = 6
	ExitTransport        = 7
	ExitDuplicate        = 20
	ExitAssetMissing     = 21
	ExitGroupMissing     = 22
	ExitCategoryMissing  = 23
	ExitContainerMissing = 24
	ExitComponentMissing = 25
)

// ExitCoder is implemented by errors that select a process exit code.
type ExitCoder interface {
	ExitCode() int
}

// ExitCodeOf returns the exit code for err. Errors outside the taxonomy exit
// with ExitGeneral.
func ExitCodeOf(err error) int {
	if err == nil {
		return ExitOK
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitGeneral
}

// MissingError is returned when a name lookup that required a match found
// none.
type MissingError struct {
	Kind string
	Name string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("could not locate %s: %s", e.Kind, e.Name)
}

func (e *MissingError) ExitCode() int {
	switch e.Kind {
	case AssetKind.Name:
		return ExitAssetMissing
	case GroupKind.Name:
		return ExitGroupMissing
	case CategoryKind.Name:
		return ExitCategoryMissing
	case ContainerKind.Name:
		return ExitContainerMissing
	case ComponentKind.Name:
		return ExitComponentMissing
	}
	return ExitGeneral
}

// DuplicateError is returned when a name matches more than one resource.
// Names are unique by convention only, so this is a data-integrity problem
// the client can not resolve.
type DuplicateError struct {
	Kind  string
	Name  string
	Count int
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("found more than one %s named %q (%d found), names must be unique", e.Kind, e.Name, e.Count)
}

func (e *DuplicateError) ExitCode() int { return ExitDuplicate }

// ProtocolError means the server response broke the wire contract, for
// example a dual-schema field whose two spellings disagree. It points at a
// client/server schema mismatch.
type ProtocolError struct {
	Field  string
	Detail string
}

func (e *ProtocolError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid API response: %s: %s", e.Field, e.Detail)
	}
	return "invalid API response: " + e.Detail
}

func (e *ProtocolError) ExitCode() int { return ExitInternal }

// InternalError is an internal contract violation detected by the client,
// such as an unresolvable relationship URL or a pagination loop.
type InternalError struct {
	Op  string
	Msg string
}

func (e *InternalError) Error() string {
	if e.Op != "" {
		return e.Op + ": " + e.Msg
	}
	return e.Msg
}

func (e *InternalError) ExitCode() int { return ExitInternal }

// ValidationError is a 422 response to a write. Message is the human text
// for the first error object: a mapped message for recognised pointers or
// the server's own text otherwise.
type ValidationError struct {
	Status  int
	Pointer string
	Code    string
	Message string
	Objects []ErrorObject

	problems *multierror.Error
}

// NewValidationError builds a validation error from the response objects.
// describe turns each object into the human message shown for it.
func NewValidationError(status int, objects []ErrorObject, describe func(ErrorObject) string) *ValidationError {
	v := &ValidationError{Status: status, Objects: objects}
	for _, obj := range objects {
		v.problems = multierror.Append(v.problems, errors.New(describe(obj)))
	}
	if len(objects) > 0 {
		first := objects[0]
		v.Pointer = first.Source.Pointer
		v.Code = string(first.Code)
		v.Message = describe(first)
	}
	return v
}

func (e *ValidationError) Error() string {
	if e.problems == nil || len(e.problems.Errors) == 0 {
		return "the request was rejected as invalid"
	}
	if len(e.problems.Errors) == 1 {
		return e.Message
	}
	msgs := make([]string, 0, len(e.problems.Errors))
	for _, p := range e.problems.Errors {
		msgs = append(msgs, p.Error())
	}
	return strings.Join(msgs, "\n")
}

func (e *ValidationError) ExitCode() int { return ExitValidation }

// CredentialsError means the API token is missing, malformed or expired.
type CredentialsError struct {
	Reason string
	Err    error
}

func (e *CredentialsError) Error() string {
	return e.Reason + "\nPlease run 'configure' to update your credentials"
}

func (e *CredentialsError) Unwrap() error { return e.Err }

func (e *CredentialsError) ExitCode() int { return ExitCredentials }

// TransportError is a failed request: a network failure or a non-2xx status
// outside the more specific kinds. Code, Pointer and Detail come from the
// first error object of the response, when there was one.
type TransportError struct {
	Method  string
	URL     string
	Status  int
	Code    string
	Pointer string
	Detail  string
	Err     error
}

func (e *TransportError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", e.Method, e.URL)
	if e.Status != 0 {
		fmt.Fprintf(&b, " returned status %d", e.Status)
	}
	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) ExitCode() int { return ExitTransport }

// InputError is a user input problem detected before any request is made.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

func (e *InputError) ExitCode() int { return ExitInput }

// InputErrorf formats an InputError.
func InputErrorf(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// InteractiveOnlyError is returned by commands that need a terminal.
type InteractiveOnlyError struct {
	Command string
}

func (e *InteractiveOnlyError) Error() string {
	return fmt.Sprintf("'%s' can only be run within an interactive terminal", e.Command)
}

func (e *InteractiveOnlyError) ExitCode() int { return ExitInteractiveOnly }
