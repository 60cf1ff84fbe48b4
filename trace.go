package orgb

import "github.com/google/uuid"

// newTraceID generates a per-connection correlation ID attached to every
// structured log line a Client emits for that connection. The wire
// protocol itself has no concept of a connection or request ID; this
// exists purely so log lines from concurrent connections in the same
// process can be told apart.
func newTraceID() string {
	return uuid.New().String()
}
