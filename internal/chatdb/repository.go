package chatdb

import "context"

// MessageStore is the append-only chat log for a room.
type MessageStore interface {
	// CommitMessage appends a message with a server-assigned timestamp.
	// Persistence is best effort: failures are logged and counted but never
	// surfaced to the caller.
	CommitMessage(ctx context.Context, room, message, user string)
	// RecentMessages returns up to limit messages for a room, newest first.
	// A non-positive limit falls back to DefaultRecentLimit. Unknown rooms
	// yield an empty slice, not an error.
	RecentMessages(ctx context.Context, room string, limit int) ([]ChatMessage, error)
}

// PresenceStore tracks which users are currently in which rooms, with the
// display color each was assigned on join.
type PresenceStore interface {
	// Join records a user as present in a room. Joining a room the user is
	// already in updates the color and keeps the original join position.
	Join(ctx context.Context, user, room, color string) error
	// Leave removes the user's presence entry. Leaving a room the user never
	// joined is a no-op.
	Leave(ctx context.Context, user, room string) error
	// Color returns the color assigned to a user in a room. It returns
	// ErrNotPresent if the user is not in the room; there is no default.
	Color(ctx context.Context, user, room string) (string, error)
	// ListUsers returns the users present in a room in join order, along
	// with the count (always len of the list).
	ListUsers(ctx context.Context, room string) ([]string, int, error)
}

// SavedRoomStore holds per-user room bookmarks. Duplicate bookmarks are
// permitted and preserved in insertion order.
type SavedRoomStore interface {
	SaveRoom(ctx context.Context, saved SavedRoom) error
	SavedRooms(ctx context.Context, user string) ([]SavedRoomEntry, error)
}
