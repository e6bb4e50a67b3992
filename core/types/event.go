package types

// Event represents a typed state change emitted by one of the engines.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
