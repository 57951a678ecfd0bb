package realtime

// Conn is the transport surface of one live connection. The session
// controller and the connection registry depend on it instead of a concrete
// websocket type so both can be exercised with fakes.
type Conn interface {
	ReadMessage() ([]byte, error)
	WriteJSON(v any) error

	// ClosePolicy terminates the connection with a policy-violation close
	// code before the session goes active.
	ClosePolicy(reason string) error
	Close() error
}
