package service

import "errors"

var (
	// ErrInvalidInput means a malformed or missing field or id
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnauthorized means bad credentials or an invalid, expired or malformed token
	ErrUnauthorized = errors.New("unauthorized")
	// ErrNotFound means the requested user or parent post does not exist
	ErrNotFound = errors.New("not found")
	// ErrNotFoundOrUnauthorized is returned when a mutation matched no row. A missing row and a
	// row owned by someone else are deliberately reported the same way.
	ErrNotFoundOrUnauthorized = errors.New("not found or unauthorized")
)
