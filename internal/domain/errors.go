package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for each failure class
var (
	ErrUnknownResource    = errors.New("unknown resource")
	ErrUnknownAttribute   = errors.New("unknown attribute")
	ErrInvalidOperator    = errors.New("invalid operator")
	ErrInvalidValue       = errors.New("invalid value")
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrAuthorization      = errors.New("authorization failed")
	ErrQueryRejected      = errors.New("query rejected by backend")
	ErrMalformedRecord    = errors.New("malformed record")
)

// UnknownResourceError is returned for a resource name outside the registry
type UnknownResourceError struct {
	Name string
}

func (e *UnknownResourceError) Error() string {
	return fmt.Sprintf("unknown resource %q", e.Name)
}

func (e *UnknownResourceError) Is(target error) bool {
	return target == ErrUnknownResource
}

// UnknownAttributeError is returned for a filter key the resource does not declare
type UnknownAttributeError struct {
	Resource  string
	Attribute string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("%s: unknown attribute %q", e.Resource, e.Attribute)
}

func (e *UnknownAttributeError) Is(target error) bool {
	return target == ErrUnknownAttribute
}

// InvalidOperatorError is returned when the inferred operator does not fit
// the attribute's declared type
type InvalidOperatorError struct {
	Attribute string
	Operator  Operator
	Type      AttributeType
}

func (e *InvalidOperatorError) Error() string {
	return fmt.Sprintf("%s: operator %s not supported for %s attributes", e.Attribute, e.Operator, e.Type)
}

func (e *InvalidOperatorError) Is(target error) bool {
	return target == ErrInvalidOperator
}

// InvalidValueError is returned when a filter value cannot be used
type InvalidValueError struct {
	Attribute string
	Value     any
	Reason    string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: invalid value %v: %s", e.Attribute, e.Value, e.Reason)
}

func (e *InvalidValueError) Is(target error) bool {
	return target == ErrInvalidValue
}

// BackendError wraps a failure of the remote document store or object storage.
// Kind is ErrBackendUnavailable, ErrAuthorization or ErrQueryRejected.
type BackendError struct {
	Backend string
	Op      string
	Kind    error
	Err     error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Backend, e.Op, e.Kind, e.Err)
}

func (e *BackendError) Is(target error) bool {
	return target == e.Kind
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

// Unavailable wraps a transport failure
func Unavailable(backend, op string, err error) error {
	return &BackendError{Backend: backend, Op: op, Kind: ErrBackendUnavailable, Err: err}
}

// Unauthorized wraps a credential rejection
func Unauthorized(backend, op string, err error) error {
	return &BackendError{Backend: backend, Op: op, Kind: ErrAuthorization, Err: err}
}

// Rejected wraps a well-formed query the backend refuses to run, such as
// one that needs an index that does not exist
func Rejected(backend, op string, err error) error {
	return &BackendError{Backend: backend, Op: op, Kind: ErrQueryRejected, Err: err}
}

// MalformedRecordError signals a raw record that does not fit the documented
// schema. It points at backend or schema drift, not at the caller.
type MalformedRecordError struct {
	Resource string
	Record   string
	Field    string
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	if e.Record == "" {
		return fmt.Sprintf("%s: malformed record: %s %s", e.Resource, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: malformed record %s: %s %s", e.Resource, e.Record, e.Field, e.Reason)
}

func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// IsCallerFault reports whether err was caused by the request itself
func IsCallerFault(err error) bool {
	return errors.Is(err, ErrUnknownResource) ||
		errors.Is(err, ErrUnknownAttribute) ||
		errors.Is(err, ErrInvalidOperator) ||
		errors.Is(err, ErrInvalidValue)
}

// Kind returns a short stable label for err, used in logs and metrics
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrUnknownResource):
		return "unknown_resource"
	case errors.Is(err, ErrUnknownAttribute):
		return "unknown_attribute"
	case errors.Is(err, ErrInvalidOperator):
		return "invalid_operator"
	case errors.Is(err, ErrInvalidValue):
		return "invalid_value"
	case errors.Is(err, ErrAuthorization):
		return "authorization"
	case errors.Is(err, ErrBackendUnavailable):
		return "backend_unavailable"
	case errors.Is(err, ErrQueryRejected):
		return "query_rejected"
	case errors.Is(err, ErrMalformedRecord):
		return "malformed_record"
	default:
		return "internal"
	}
}
