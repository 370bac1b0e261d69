package domain

// Session event names pushed on /session/stream
const (
	EventConnected      = "connected"
	EventAccountUpdated = "account.updated"
	EventSignedOut      = "signed_out"
)

// SessionEvent is one identity change for one account
type SessionEvent struct {
	Event     string   `json:"event"`
	AccountID uint     `json:"account_id"`
	Session   *Session `json:"session,omitempty"`
	Origin    string   `json:"origin,omitempty"`
}
