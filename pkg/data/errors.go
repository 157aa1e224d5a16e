package data

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the schedule endpoint has no content for a
	// channel and date. It is a signal, not a failure.
	ErrNotFound = errors.New("schedule not found")
	// ErrUnexpectedStatus is returned when the HTTP response has an unexpected status code.
	ErrUnexpectedStatus = errors.New("unexpected status code")
	// ErrRunInProgress is returned when an update is requested while another one is running.
	ErrRunInProgress = errors.New("update already in progress")
)

// NetworkError reports a failed request to the upstream API.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError reports a document that could not be read.
type ParseError struct {
	Doc string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Doc, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
