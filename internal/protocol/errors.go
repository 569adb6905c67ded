package protocol

import "errors"

// Sentinel errors for protocol execution.
var (
	ErrTransport       = errors.New("protocol: transport send failed")
	ErrTimeout         = errors.New("protocol: wait timed out")
	ErrTransportClosed = errors.New("protocol: transport closed")
	ErrExtraction      = errors.New("protocol: required field missing from payload")
	ErrBadTemplate     = errors.New("protocol: invalid step template")
	ErrRemote          = errors.New("protocol: remote returned an error")
)
