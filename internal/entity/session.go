package entity

// Session is the reconnect token record for a participant. It is the only
// participant state kept outside the room itself.
type Session struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
