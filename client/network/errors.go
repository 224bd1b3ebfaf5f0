package network

import "fmt"

// ErrSessionEnded is returned once the server has ended the session.
type ErrSessionEnded struct {
	Ticks uint64
}

func (e *ErrSessionEnded) Error() string {
	return fmt.Sprintf("session ended by server after %d ticks", e.Ticks)
}

// ErrConnectionClosedByClient is returned when the client closed the connection
type ErrConnectionClosedByClient struct{}

func (e *ErrConnectionClosedByClient) Error() string {
	return "connection closed by client"
}
