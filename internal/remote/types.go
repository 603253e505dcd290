package remote

import "termcalc/internal/session"

// KeysRequest is the JSON body for POST /sessions/{id}/keys and the payload
// of every websocket text frame. Named keys in Keys are applied before the
// characters of Input.
type KeysRequest struct {
	Keys  []string `json:"keys,omitempty"`  // "7", "+", "Enter", "Backspace"
	Input string   `json:"input,omitempty"` // compact form, e.g. "12+3="
}

// SessionResponse is returned when a session is created.
type SessionResponse struct {
	ID   string       `json:"id"`
	View session.View `json:"view"`
}

// KeysResponse reports the view after a batch of keys.
type KeysResponse struct {
	View    session.View `json:"view"`
	Applied int          `json:"applied"`
	// Closed is set when a quit key ended the session.
	Closed bool `json:"closed"`
}

// ErrorFrame is sent over a websocket in place of a KeysResponse when a
// frame cannot be applied.
type ErrorFrame struct {
	Error string `json:"error"`
}
