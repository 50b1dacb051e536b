// Package errors provides domain-specific error types for the sleep-proxy-client application.
//
// This package defines structured errors with error codes, making it easier to handle
// and test different error conditions consistently across the application. Every
// failure kind a registration run can hit has its own code; callers decide the log
// severity and whether to continue from the code alone.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode represents a category of error that can occur in the application.
type ErrorCode string

const (
	// ErrCodeConfig indicates an operator configuration mistake (e.g. unknown interface).
	ErrCodeConfig ErrorCode = "CONFIG_ERROR"

	// ErrCodeDiscovery indicates the browse source returned malformed data or failed.
	ErrCodeDiscovery ErrorCode = "DISCOVERY_ERROR"

	// ErrCodeNoAddress indicates an interface has no usable IPv4/IPv6 address.
	ErrCodeNoAddress ErrorCode = "NO_ADDRESS_ERROR"

	// ErrCodeNoProxy indicates no sleep proxy was discovered on an interface.
	ErrCodeNoProxy ErrorCode = "NO_PROXY_ERROR"

	// ErrCodeTransport indicates a timeout or network failure talking to a proxy.
	ErrCodeTransport ErrorCode = "TRANSPORT_ERROR"

	// ErrCodeProtocol indicates a malformed response or a non-success response code.
	ErrCodeProtocol ErrorCode = "PROTOCOL_ERROR"

	// ErrCodeInterface indicates an error related to network interfaces.
	ErrCodeInterface ErrorCode = "INTERFACE_ERROR"

	// ErrCodeValidation indicates a validation error.
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Sentinels for errors.Is checks. Matching is by code only.
var (
	ErrConfig    = New(ErrCodeConfig, "configuration error")
	ErrDiscovery = New(ErrCodeDiscovery, "discovery error")
	ErrNoAddress = New(ErrCodeNoAddress, "no usable address")
	ErrNoProxy   = New(ErrCodeNoProxy, "no sleep proxy available")
	ErrTransport = New(ErrCodeTransport, "transport error")
	ErrProtocol  = New(ErrCodeProtocol, "protocol error")
)

// Error represents a domain-specific error with an error code and optional cause.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error for errors.Is and errors.As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a new domain error with the specified code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Wrap creates a new domain error wrapping an existing error.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// CodeOf returns the code of the first *Error in err's tree, or "" if there is none.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// NewConfigError creates a new configuration error.
func NewConfigError(message string, cause error) *Error {
	return Wrap(ErrCodeConfig, message, cause)
}

// NewDiscoveryError creates a new discovery error.
func NewDiscoveryError(message string, cause error) *Error {
	return Wrap(ErrCodeDiscovery, message, cause)
}

// NewNoAddressError creates a new error for an interface without usable addresses.
func NewNoAddressError(message string) *Error {
	return New(ErrCodeNoAddress, message)
}

// NewNoProxyError creates a new error for an interface without sleep proxies.
func NewNoProxyError(message string) *Error {
	return New(ErrCodeNoProxy, message)
}

// NewTransportError creates a new transport error.
func NewTransportError(message string, cause error) *Error {
	return Wrap(ErrCodeTransport, message, cause)
}

// NewProtocolError creates a new protocol error.
func NewProtocolError(message string, cause error) *Error {
	return Wrap(ErrCodeProtocol, message, cause)
}

// NewInterfaceError creates a new interface-related error.
func NewInterfaceError(message string, cause error) *Error {
	return Wrap(ErrCodeInterface, message, cause)
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, cause error) *Error {
	return Wrap(ErrCodeValidation, message, cause)
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, cause error) *Error {
	return Wrap(ErrCodeInternal, message, cause)
}
