// Package common holds the error taxonomy shared by services and handlers.
// Services return (wrapped) sentinel errors; handlers classify them with
// HTTPStatus and send only the short message to the client.
package common

import (
	"errors"
	"net/http"
)

var (
	// Validation failures (400).
	ErrAllFieldsRequired   = errors.New("All fields are required")
	ErrPasswordsDoNotMatch = errors.New("Passwords do not match")
	ErrInvalidEmailFormat  = errors.New("Invalid email format")
	ErrInvalidStatus       = errors.New("Status must be 'lost' or 'found'")

	// Conflicts (400).
	ErrUserExists = errors.New("User already exists")
	ErrLinkTaken  = errors.New("Could not generate a unique link, please try again")

	// Credential failures. Both are 400s with distinct message text; 401 is
	// reserved for token problems at the middleware.
	ErrUserDoesNotExist   = errors.New("User does not exist")
	ErrInvalidCredentials = errors.New("Invalid credentials")

	// Authenticated but not authorized (403).
	ErrNotOwner = errors.New("You are not allowed to modify this item")

	// Missing record (404).
	ErrItemNotFound = errors.New("Item not found")

	// External image service failure (500).
	ErrImageUpload = errors.New("Failed to upload image")
)

// HTTPStatus maps a service error onto the response status code.
// Unclassified errors are treated as internal (500).
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrAllFieldsRequired),
		errors.Is(err, ErrPasswordsDoNotMatch),
		errors.Is(err, ErrInvalidEmailFormat),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrUserExists),
		errors.Is(err, ErrLinkTaken),
		errors.Is(err, ErrUserDoesNotExist),
		errors.Is(err, ErrInvalidCredentials):
		return http.StatusBadRequest
	case errors.Is(err, ErrNotOwner):
		return http.StatusForbidden
	case errors.Is(err, ErrItemNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing text for an error: the sentinel message
// when the error is classified, a generic one otherwise so store and gateway
// details never leak.
func Message(err error) string {
	for _, sentinel := range []error{
		ErrAllFieldsRequired, ErrPasswordsDoNotMatch, ErrInvalidEmailFormat,
		ErrInvalidStatus, ErrUserExists, ErrLinkTaken, ErrUserDoesNotExist,
		ErrInvalidCredentials, ErrNotOwner, ErrItemNotFound, ErrImageUpload,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "Internal Server Error"
}
