package types

import "errors"

var (
	ErrInvalidTrip   = errors.New("invalid trip")
	ErrTripNotFound  = errors.New("trip not found")
	ErrIssueNotFound = errors.New("issue not found")
)
