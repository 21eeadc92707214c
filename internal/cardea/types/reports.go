package types

// Structured payloads carried in Response.Data by the admin capabilities.

type RoomActivity struct {
	RoomID   string `json:"roomId"`
	RoomName string `json:"roomName"`
	Count    int    `json:"count"`
}

type DailyReport struct {
	Date          string         `json:"date"` // YYYY-MM-DD (UTC day)
	TotalMessages int            `json:"totalMessages"`
	TotalRooms    int            `json:"totalRooms"`
	TopRooms      []RoomActivity `json:"topRooms"`
}

type RoomInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name,omitempty"`
	Source string `json:"source,omitempty"`
	Type   string `json:"type,omitempty"`
}

type RoomRoster struct {
	TotalRooms int        `json:"totalRooms"`
	Rooms      []RoomInfo `json:"rooms"`
}

type UserInfo struct {
	ID    string   `json:"id"`
	Names []string `json:"names"`
}

type UserRoster struct {
	TotalUsers int        `json:"totalUsers"`
	Users      []UserInfo `json:"users"`
}

type SearchHit struct {
	ID          string `json:"id"`
	RoomID      string `json:"roomId"`
	EntityID    string `json:"entityId"`
	Text        string `json:"text"`
	CreatedAtMs int64  `json:"createdAt"`
}

type SearchResults struct {
	Query        string      `json:"query"`
	TotalResults int         `json:"totalResults"`
	Results      []SearchHit `json:"results"`
}

type UserAudit struct {
	UserID        string         `json:"userId"`
	Names         []string       `json:"names"`
	TotalMessages int            `json:"totalMessages"`
	FirstSeen     string         `json:"firstSeen"` // RFC3339
	LastSeen      string         `json:"lastSeen"`  // RFC3339
	RoomActivity  []RoomActivity `json:"roomActivity"`
}

type GlobalContext struct {
	MessageCount int `json:"globalMessageCount"`
	RoomCount    int `json:"globalRoomCount"`
}
