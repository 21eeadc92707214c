package types

// Harness ingest surface: the reference host posts observed messages here
// so the event log has something for the admin capabilities to query.

type IngestEventRequest struct {
	ID          string `json:"id,omitempty"` // filled with a UUID when absent
	RoomID      string `json:"room_id"`
	EntityID    string `json:"entity_id"`
	Text        string `json:"text"`
	CreatedAtMs int64  `json:"created_at_ms,omitempty"` // defaults to now

	// Optional descriptions, upserted alongside the event.
	RoomName   string `json:"room_name,omitempty"`
	RoomSource string `json:"room_source,omitempty"`
	EntityName string `json:"entity_name,omitempty"`
}

type IngestEventResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

type InstructionRequest struct {
	Text string `json:"text"`
}
