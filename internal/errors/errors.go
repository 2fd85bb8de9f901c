package errors

import (
	"encoding/json"
	goerrors "errors"
)

// BusinessErr signals that provided data violates a business rule, e.g. email uniqueness
type BusinessErr struct {
	target  string
	message string
}

func (e *BusinessErr) Error() string {
	return e.message
}

// Target returns the name of the field which caused the violation
func (e *BusinessErr) Target() string {
	return e.target
}

// MarshalJSON renders error as {"error": message}
func (e *BusinessErr) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Error string `json:"error"`
	}{Error: e.message})
}

// NewBusinessErr builds new BusinessErr
func NewBusinessErr(target string, msg string) error {
	return &BusinessErr{
		target:  target,
		message: msg,
	}
}

// EntryNotFoundErr signals that referenced entry doesn't exist
type EntryNotFoundErr struct {
	message string
}

func (e *EntryNotFoundErr) Error() string {
	return e.message
}

// NewEntryNotFoundErr builds new EntryNotFoundErr
func NewEntryNotFoundErr(msg string) *EntryNotFoundErr {
	return &EntryNotFoundErr{message: msg}
}

// IsNotFound reports whether any error in err's chain is EntryNotFoundErr
func IsNotFound(err error) bool {
	var nfErr *EntryNotFoundErr
	return goerrors.As(err, &nfErr)
}

// IsInvalidArgument reports whether any error in err's chain is BusinessErr
func IsInvalidArgument(err error) bool {
	var bErr *BusinessErr
	return goerrors.As(err, &bErr)
}
