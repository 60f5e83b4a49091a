package chatdb

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockMessageStore struct {
	mock.Mock
}

func (m *MockMessageStore) CommitMessage(ctx context.Context, room, message, user string) {
	m.Called(ctx, room, message, user)
}
func (m *MockMessageStore) RecentMessages(ctx context.Context, room string, limit int) ([]ChatMessage, error) {
	args := m.Called(ctx, room, limit)
	return args.Get(0).([]ChatMessage), args.Error(1)
}

type MockPresenceStore struct {
	mock.Mock
}

func (m *MockPresenceStore) Join(ctx context.Context, user, room, color string) error {
	args := m.Called(ctx, user, room, color)
	return args.Error(0)
}
func (m *MockPresenceStore) Leave(ctx context.Context, user, room string) error {
	args := m.Called(ctx, user, room)
	return args.Error(0)
}
func (m *MockPresenceStore) Color(ctx context.Context, user, room string) (string, error) {
	args := m.Called(ctx, user, room)
	return args.String(0), args.Error(1)
}
func (m *MockPresenceStore) ListUsers(ctx context.Context, room string) ([]string, int, error) {
	args := m.Called(ctx, room)
	return args.Get(0).([]string), args.Int(1), args.Error(2)
}

type MockSavedRoomStore struct {
	mock.Mock
}

func (m *MockSavedRoomStore) SaveRoom(ctx context.Context, saved SavedRoom) error {
	args := m.Called(ctx, saved)
	return args.Error(0)
}
func (m *MockSavedRoomStore) SavedRooms(ctx context.Context, user string) ([]SavedRoomEntry, error) {
	args := m.Called(ctx, user)
	return args.Get(0).([]SavedRoomEntry), args.Error(1)
}
