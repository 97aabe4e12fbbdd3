package services

import "net/http"

// ErrorKind classifies a ServiceError so callers can branch on the
// taxonomy instead of parsing messages.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindAuthorization ErrorKind = "authorization"
	KindNotFound      ErrorKind = "not_found"
	KindUpstream      ErrorKind = "upstream"
	KindPersistence   ErrorKind = "persistence"
	KindStateConflict ErrorKind = "state_conflict"
)

// Generic user-facing messages. Internal detail (SQL, stack traces,
// gateway payloads) never reaches the client; it is logged instead.
const (
	msgGenericRetry    = "Something went wrong. Please try again."
	msgUpstreamRetry   = "The service is temporarily unavailable. Please try again in a moment."
	msgUnauthenticated = "Please sign in to continue."
)

// ServiceError is a typed error with an HTTP status code.
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	return e.Message
}

func validationError(msg string) *ServiceError {
	return &ServiceError{Kind: KindValidation, StatusCode: http.StatusBadRequest, Message: msg}
}

func notFoundError(msg string) *ServiceError {
	return &ServiceError{Kind: KindNotFound, StatusCode: http.StatusNotFound, Message: msg}
}

func authorizationError(reason string) *ServiceError {
	return &ServiceError{Kind: KindAuthorization, StatusCode: http.StatusForbidden, Message: reason}
}

func unauthenticatedError() *ServiceError {
	return &ServiceError{Kind: KindAuthorization, StatusCode: http.StatusUnauthorized, Message: msgUnauthenticated}
}

func upstreamError() *ServiceError {
	return &ServiceError{Kind: KindUpstream, StatusCode: http.StatusBadGateway, Message: msgUpstreamRetry}
}

func persistenceError() *ServiceError {
	return &ServiceError{Kind: KindPersistence, StatusCode: http.StatusInternalServerError, Message: msgGenericRetry}
}

func stateConflictError(msg string) *ServiceError {
	return &ServiceError{Kind: KindStateConflict, StatusCode: http.StatusConflict, Message: msg}
}
