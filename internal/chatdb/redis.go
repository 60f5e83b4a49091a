package chatdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/crenwick/chatstore/internal/stats"
)

// DefaultRecentLimit is the number of messages RecentMessages returns when
// the caller does not ask for a specific limit.
const DefaultRecentLimit = 5

var ErrNotPresent = errors.New("chatdb: user not present in room")

// RedisStore holds the connection to the document backend and implements
// MessageStore, PresenceStore and SavedRoomStore on top of it. One store is
// constructed at startup and shared; the connection lives until Close.
type RedisStore struct {
	client *redis.Client
	log    *log.Logger
	stats  stats.StatsProvider
}

func NewRedisStore(redisURL string, logger *log.Logger, sp stats.StatsProvider) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return &RedisStore{
		client: client,
		log:    logger,
		stats:  sp,
	}, nil
}

func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

func messagesKey(room string) string {
	return "chatstore:messages:" + room
}

func presenceKey(room string) string {
	return "chatstore:presence:" + room
}

func colorsKey(room string) string {
	return "chatstore:colors:" + room
}

func savedKey(user string) string {
	return "chatstore:saved:" + user
}

// CommitMessage appends a message to the room's log with the server clock as
// timestamp. Failures are not returned: they are logged and counted under
// MessagesDropped so the drop is still observable.
func (rs *RedisStore) CommitMessage(ctx context.Context, room, message, user string) {
	now := time.Now().UTC()
	msg := ChatMessage{
		Room:    room,
		Message: message,
		User:    user,
		Time:    now,
	}

	data, err := json.Marshal(msg)
	if err != nil {
		rs.log.Printf("marshal message for room %q: %v", room, err)
		rs.stats.Incr(stats.MessagesDropped)
		return
	}

	err = rs.client.ZAdd(ctx, messagesKey(room), &redis.Z{
		Score:  float64(now.UnixNano()),
		Member: data,
	}).Err()
	if err != nil {
		rs.log.Printf("commit message for room %q: %v", room, err)
		rs.stats.Incr(stats.MessagesDropped)
		return
	}

	rs.stats.Incr(stats.MessagesStored)
}

func (rs *RedisStore) RecentMessages(ctx context.Context, room string, limit int) ([]ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	raw, err := rs.client.ZRevRange(ctx, messagesKey(room), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("fetch recent messages for room %q: %w", room, err)
	}

	messages := make([]ChatMessage, 0, len(raw))
	for _, item := range raw {
		var msg ChatMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal message in room %q: %w", room, err)
		}

		messages = append(messages, msg)
	}

	return messages, nil
}

// Join marks the user present in the room. The join-time zset keeps the
// original position on repeat joins (ZADD NX); the color hash is always
// updated so a rejoin can carry a new color.
func (rs *RedisStore) Join(ctx context.Context, user, room, color string) error {
	err := rs.client.ZAddNX(ctx, presenceKey(room), &redis.Z{
		Score:  float64(time.Now().UTC().UnixNano()),
		Member: user,
	}).Err()
	if err != nil {
		return fmt.Errorf("join room %q: %w", room, err)
	}

	if err := rs.client.HSet(ctx, colorsKey(room), user, color).Err(); err != nil {
		return fmt.Errorf("set color for %q in room %q: %w", user, room, err)
	}

	rs.stats.Incr(stats.PresenceJoins)
	return nil
}

func (rs *RedisStore) Leave(ctx context.Context, user, room string) error {
	if err := rs.client.ZRem(ctx, presenceKey(room), user).Err(); err != nil {
		return fmt.Errorf("leave room %q: %w", room, err)
	}

	if err := rs.client.HDel(ctx, colorsKey(room), user).Err(); err != nil {
		return fmt.Errorf("clear color for %q in room %q: %w", user, room, err)
	}

	rs.stats.Incr(stats.PresenceLeaves)
	return nil
}

func (rs *RedisStore) Color(ctx context.Context, user, room string) (string, error) {
	color, err := rs.client.HGet(ctx, colorsKey(room), user).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%w: %q in room %q", ErrNotPresent, user, room)
		}

		return "", fmt.Errorf("get color for %q in room %q: %w", user, room, err)
	}

	return color, nil
}

func (rs *RedisStore) ListUsers(ctx context.Context, room string) ([]string, int, error) {
	users, err := rs.client.ZRange(ctx, presenceKey(room), 0, -1).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("list users in room %q: %w", room, err)
	}

	return users, len(users), nil
}

func (rs *RedisStore) SaveRoom(ctx context.Context, saved SavedRoom) error {
	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("marshal saved room %d: %w", saved.Id, err)
	}

	if err := rs.client.RPush(ctx, savedKey(saved.User), data).Err(); err != nil {
		return fmt.Errorf("save room %d for %q: %w", saved.Id, saved.User, err)
	}

	return nil
}

func (rs *RedisStore) SavedRooms(ctx context.Context, user string) ([]SavedRoomEntry, error) {
	raw, err := rs.client.LRange(ctx, savedKey(user), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list saved rooms for %q: %w", user, err)
	}

	entries := make([]SavedRoomEntry, 0, len(raw))
	for _, item := range raw {
		var saved SavedRoom
		if err := json.Unmarshal([]byte(item), &saved); err != nil {
			return nil, fmt.Errorf("unmarshal saved room for %q: %w", user, err)
		}

		entries = append(entries, SavedRoomEntry{Id: saved.Id, Name: saved.RoomName})
	}

	return entries, nil
}
