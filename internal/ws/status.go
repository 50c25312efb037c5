package ws

type Status string

const (
	StatusConnecting   Status = "connecting"
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
	StatusError        Status = "error"
)

// StatusFunc observes every status transition. err is set for StatusError
// and, when the connection failed, for the StatusDisconnected that follows.
type StatusFunc func(s Status, err error)
