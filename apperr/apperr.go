package apperr

import (
	"errors"
	"net/http"
)

// Error is the shape every domain failure takes: a message plus the HTTP
// class it maps to. Status is always false so the JSON body matches the
// {status, message} envelope handlers return.
type Error struct {
	Status     bool   `json:"status"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
}

func (e *Error) Error() string {
	return e.Message
}

func NotFound(msg string) *Error {
	return &Error{Status: false, Message: msg, HTTPStatus: http.StatusNotFound}
}

func BadRequest(msg string) *Error {
	return &Error{Status: false, Message: msg, HTTPStatus: http.StatusBadRequest}
}

func Conflict(msg string) *Error {
	return &Error{Status: false, Message: msg, HTTPStatus: http.StatusConflict}
}

func Unauthorized(msg string) *Error {
	return &Error{Status: false, Message: msg, HTTPStatus: http.StatusUnauthorized}
}

// StatusOf maps any error to an HTTP status code. Non-domain errors are
// internal server errors.
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.HTTPStatus
	}
	return http.StatusInternalServerError
}
