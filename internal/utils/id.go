package utils

import (
	"errors"
	"strconv"
)

// ErrInvalidID is returned for path ids that are not positive integers
var ErrInvalidID = errors.New("invalid id")

// ParseID converts a path segment into a row id. Only base-10 integers greater than zero are accepted.
func ParseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrInvalidID
	}
	return id, nil
}
