// © 2025 Klang Labs
//
// SPDX-License-Identifier: Apache-2.0

package exc

import (
	"fmt"

	"gopkg.klang.org/interpreter.go/internal/lang"
	"gopkg.klang.org/interpreter.go/internal/optional"
)

type Exception interface {
	error
	Code() string
	Message() string
	Location() Location
}

// Location ties an exception to the source that raised it. Span is absent on
// faults with no single place in the text; a zero-width Span marks a point
// rather than a covered region.
type Location struct {
	URI  string
	Span optional.Optional[lang.Range]
}

func NewLocation(uri string, span lang.Range) Location {
	return Location{URI: uri, Span: optional.Some(span)}
}

func (self Location) String() string {
	if !self.Span.IsPresent() {
		return self.URI
	}
	span := self.Span.Value()
	if span.Empty() {
		return fmt.Sprintf("%s:%s", self.URI, span.Start())
	}
	return fmt.Sprintf("%s:%s", self.URI, span)
}

type exc struct {
	code     string
	message  string
	location Location
}

func (e *exc) Error() string {
	return fmt.Sprintf("%s -- %s: %s", e.location, e.code, e.message)
}

func (e *exc) Code() string {
	return e.code
}

func (e *exc) Message() string {
	return e.message
}

func (e *exc) Location() Location {
	return e.location
}

type excUnwrap struct {
	Exception
	cause error
}

func (e *excUnwrap) Unwrap() error {
	return e.cause
}

func New(location Location, code string, message string) Exception {
	return &exc{
		location: location,
		message:  message,
		code:     code,
	}
}

func Wrap(location Location, code string, err error) Exception {
	if err == nil {
		return nil
	}
	if e, ok := err.(Exception); ok {
		return &excUnwrap{
			Exception: New(location, code, e.Message()),
			cause:     e,
		}
	}
	return &excUnwrap{
		cause:     err,
		Exception: New(location, code, err.Error()),
	}
}

func WrapUnknown(location Location, err error) Exception {
	return Wrap(location, CodeUnknownFatal, err)
}
