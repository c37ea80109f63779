package domain

import (
	"errors"
	"fmt"
)

// ErrUnknownSample is matched by errors.Is for any UnknownSampleError.
var ErrUnknownSample = errors.New("unknown sample")

// ValidationError reports a field whose value is not a number.
type ValidationError struct {
	Field Field
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("Please enter a valid number for %s", e.Field.Label())
}

// RequestError reports a failed prediction round trip. StatusCode is zero
// when the request never produced a response.
type RequestError struct {
	StatusCode int
	Err        error
}

func (e *RequestError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
	}
	if e.Err == nil {
		return "prediction request failed"
	}
	return fmt.Sprintf("prediction request failed: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// UnknownSampleError names a preset that does not exist.
type UnknownSampleError struct {
	Name string
}

func (e *UnknownSampleError) Error() string {
	return fmt.Sprintf("unknown sample %q", e.Name)
}

func (e *UnknownSampleError) Is(target error) bool {
	return target == ErrUnknownSample
}
