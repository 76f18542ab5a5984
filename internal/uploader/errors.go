package uploader

import "fmt"

// ValidationError is produced synchronously before any network call; it is
// never retried.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// NegotiationError means the backend rejected or was unreachable during the
// write-URL request. Message carries the backend's human-readable reason when
// one could be parsed.
type NegotiationError struct {
	StatusCode int
	Message    string
}

func (e *NegotiationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("negotiation failed (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("negotiation failed: %s", e.Message)
}

// TransferReason distinguishes transfer failures so callers can decide
// whether a retry makes sense.
type TransferReason string

const (
	ReasonNetwork TransferReason = "network"
	ReasonStatus  TransferReason = "http-status"
	ReasonAborted TransferReason = "aborted"
)

type TransferError struct {
	Reason     TransferReason
	StatusCode int
	Err        error
}

func (e *TransferError) Error() string {
	if e.Reason == ReasonStatus {
		return fmt.Sprintf("transfer failed (%s, status %d): %v", e.Reason, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("transfer failed (%s): %v", e.Reason, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

// Retryable reports whether the failure is worth re-attempting. Explicit
// aborts and storage rejections are not.
func (e *TransferError) Retryable() bool { return e.Reason == ReasonNetwork }
