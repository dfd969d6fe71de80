package usecase

// Notifier is the gateway capability the usecases fan events out
// through. The core never sees transport types; the WebSocket adapter
// satisfies this.
type Notifier interface {
	Write(playerID string, payload any)
	WriteMany(playerIDs []string, payload any)
}
