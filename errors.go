package orgb

import "errors"

// Sentinel errors for the OpenRGB wire protocol and client state machine.
// All errors returned by this package can be matched against these with
// errors.Is, even when wrapped with additional context via fmt.Errorf's
// %w verb.
var (
	// ErrTruncated means an input cursor ran out of bytes mid-field.
	// Fatal to the current deserialization; the connection is broken.
	ErrTruncated = errors.New("orgb: truncated data")

	// ErrMalformed means a description record or message violated one of
	// its invariants (bad matrix_length, active_mode out of range, ...).
	// Fatal; the connection is broken.
	ErrMalformed = errors.New("orgb: malformed message")

	// ErrBadMagic means a frame header did not start with "ORGB".
	// Fatal; the connection is broken.
	ErrBadMagic = errors.New("orgb: bad magic")

	// ErrUnknownType means a header's message_type is not recognized.
	// Fatal; the connection is broken.
	ErrUnknownType = errors.New("orgb: unknown message type")

	// ErrOverSized means a frame's declared body_size exceeds the
	// configured cap. Fatal.
	ErrOverSized = errors.New("orgb: frame body too large")

	// ErrUnexpectedMessage means an inbound frame's code matched no
	// pending request and is not a known notification. Fatal.
	ErrUnexpectedMessage = errors.New("orgb: unexpected message")

	// ErrDisconnected means the transport closed or reset. Fatal.
	ErrDisconnected = errors.New("orgb: disconnected")

	// ErrTimeout means a caller-supplied deadline fired mid-operation.
	// Fatal.
	ErrTimeout = errors.New("orgb: timeout")

	// ErrNotConnected means an API call was made on a closed handle.
	// Recoverable; the caller may reconnect.
	ErrNotConnected = errors.New("orgb: not connected")
)
