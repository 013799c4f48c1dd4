/**
 * Copyright 2020 TryFix Engineering.
 * All rights reserved.
 * Authors:
 *    Gayan Yapa (gmbyapa@gmail.com)
 */

package kafkaconnect

import (
	"errors"
	"fmt"
	"net/http"
)

// ArgumentError indicates a missing, empty or malformed caller argument.
// It is always returned before any network call is made.
type ArgumentError struct {
	Name   string
	Reason string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf(`kafkaconnect: invalid argument [%s] %s`, e.Name, e.Reason)
}

// SchemaError indicates the given Avro schema failed local validation.
// It is always returned before any network call is made.
type SchemaError struct {
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf(`kafkaconnect: schema parse failed due to %s`, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

// UnavailableError indicates the target host could not be reached at all,
// as opposed to the service responding with an error status.
type UnavailableError struct {
	Host string
	Err  error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf(`kafkaconnect: service at [%s] unavailable due to %s`, e.Host, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// RequestError indicates the service responded with a non-success HTTP
// status. Status and Body are kept as received so callers can distinguish
// the semantically meaningful codes (404, 409, 422) from generic failures.
type RequestError struct {
	Status int
	Body   []byte
}

func (e *RequestError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf(`kafkaconnect: request failed with status [%d]`, e.Status)
	}

	return fmt.Sprintf(`kafkaconnect: request failed with status [%d] %s`, e.Status, e.Body)
}

// IsNotFound reports whether err is a RequestError carrying 404,
// the subject, version, schema or connector does not exist.
func IsNotFound(err error) bool {
	return statusIs(err, http.StatusNotFound)
}

// IsIncompatible reports whether err is a RequestError carrying 409, a schema
// rejected under the registry compatibility mode currently configured.
func IsIncompatible(err error) bool {
	return statusIs(err, http.StatusConflict)
}

// IsInvalid reports whether err is a RequestError carrying 422, a schema or
// version rejected by server side validation.
func IsInvalid(err error) bool {
	return statusIs(err, http.StatusUnprocessableEntity)
}

func statusIs(err error, status int) bool {
	reqErr := &RequestError{}
	if errors.As(err, &reqErr) {
		return reqErr.Status == status
	}

	return false
}
