package constants

import "errors"

var (
	ErrFlightNotFound    = errors.New("flight not found")
	ErrInvalidFlight     = errors.New("invalid flight")
	ErrInvalidSearch     = errors.New("invalid journey search")
	ErrUnknownEvent      = errors.New("unknown journey change event")
	ErrRefreshInProgress = errors.New("journey index refresh already running")
)

const (
	MsgFlightNotFound   = "Flight not found"
	MsgFlightLoadFailed = "Unable to load flight"
	MsgInvalidBody      = "Invalid request body"
	MsgInvalidFlightID  = "Invalid flight id"
	MsgRefreshFailed    = "Journey index refresh failed"
	MsgSearchFailed     = "Journey search failed"
	MsgFlightSaveFailed = "Unable to save flight"
)
