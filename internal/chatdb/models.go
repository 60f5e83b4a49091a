package chatdb

import "time"

// ChatMessage is one stored chat line. Field names match the documents
// written to the store.
type ChatMessage struct {
	Room    string    `json:"room"`
	Message string    `json:"message"`
	User    string    `json:"user"`
	Time    time.Time `json:"time"`
}

// SavedRoom is a user's bookmark of a room.
type SavedRoom struct {
	Id       int64  `json:"id"`
	RoomName string `json:"Room_name"`
	Admin    string `json:"admin"`
	User     string `json:"user"`
}

// SavedRoomEntry is the projection of a bookmark returned to callers.
type SavedRoomEntry struct {
	Id   int64  `json:"id"`
	Name string `json:"name"`
}
