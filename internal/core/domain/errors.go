package domain

import (
	"errors"
	"fmt"
)

// ErrTransport marks failures where the request never reached the server or
// the response could not be understood.
var ErrTransport = errors.New("transport failure")

// ErrNoEditSession is returned by an update that does not match the active
// editing session.
var ErrNoEditSession = errors.New("no matching edit session")

// ErrKind classifies a failure recorded by the sync controller.
type ErrKind string

const (
	KindValidation  ErrKind = "validation"
	KindTransport   ErrKind = "transport"
	KindApplication ErrKind = "application"
)

// Display messages used by the sync controller.
const (
	MsgDraftIncomplete  = "Email and Clerk ID are required"
	MsgNetworkPrefix    = "Network error: "
	MsgFetchUsersFailed = "Failed to fetch users"
	MsgCreateFailed     = "Failed to create user"
	MsgUpdateFailed     = "Failed to update user"
	MsgDeleteFailed     = "Failed to delete user"
)

// SyncError is a failure that landed in the controller's error slot. Error
// returns the human-readable message shown to the user.
type SyncError struct {
	Kind    ErrKind
	Op      string
	Message string
	Err     error
}

func (e *SyncError) Error() string { return e.Message }

func (e *SyncError) Unwrap() error { return e.Err }

// ValidationError reports a draft that failed presence checks.
func ValidationError(op string) *SyncError {
	return &SyncError{Kind: KindValidation, Op: op, Message: MsgDraftIncomplete}
}

// TransportError reports a network-level failure, prefixed so users can tell
// it apart from server-side rejections.
func TransportError(op string, err error) *SyncError {
	return &SyncError{
		Kind:    KindTransport,
		Op:      op,
		Message: MsgNetworkPrefix + transportReason(err),
		Err:     err,
	}
}

// StatusError reports a health probe answered with a non-success status.
func StatusError(op string, code int) *SyncError {
	return &SyncError{
		Kind:    KindTransport,
		Op:      op,
		Message: fmt.Sprintf("API responded with status: %d", code),
	}
}

// ApplicationError reports a success=false envelope, using the server message
// or fallback when the server sent none.
func ApplicationError(op, serverMsg, fallback string) *SyncError {
	msg := serverMsg
	if msg == "" {
		msg = fallback
	}
	return &SyncError{Kind: KindApplication, Op: op, Message: msg}
}

// transportReason strips the ErrTransport marker so the message carries only
// the underlying cause.
func transportReason(err error) string {
	if err == nil {
		return "Unknown error"
	}
	var te *transportCause
	if errors.As(err, &te) {
		return te.reason
	}
	return err.Error()
}

// transportCause lets the HTTP client attach a display reason to an error
// that still matches ErrTransport.
type transportCause struct {
	reason string
	err    error
}

func (t *transportCause) Error() string { return t.reason }

func (t *transportCause) Unwrap() []error {
	if t.err == nil {
		return []error{ErrTransport}
	}
	return []error{ErrTransport, t.err}
}

// NewTransportCause wraps err as a transport failure with a display reason.
func NewTransportCause(reason string, err error) error {
	return &transportCause{reason: reason, err: err}
}
