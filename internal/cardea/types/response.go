package types

// Response is what every admin capability hands back to the host: a
// human-readable rendering, an optional structured payload, and a success
// flag.  Responses are transient — nothing here is persisted.
type Response struct {
	Text    string `json:"text"`
	Data    any    `json:"data,omitempty"`
	Success bool   `json:"success"`
}
