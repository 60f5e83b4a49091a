// Package chat ties the relational account store and the document-side chat
// stores together into the operations the web layer calls: registration and
// credential checks, room creation with short-id derivation, join/leave
// flows, message history and bookmarks.
package chat

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"

	"golang.org/x/crypto/bcrypt"

	"github.com/crenwick/chatstore/internal/chatdb"
	"github.com/crenwick/chatstore/internal/database"
	"github.com/crenwick/chatstore/internal/roomid"
)

var ErrInvalidCredentials = errors.New("chat: invalid username or password")

// colorPalette is the set of display colors assigned to accounts at
// registration. Colors are not unique across users.
var colorPalette = []string{
	"red", "green", "blue", "purple", "orange", "teal", "magenta", "brown",
}

type ChatService struct {
	log      *log.Logger
	accounts database.AccountRepository
	messages chatdb.MessageStore
	presence chatdb.PresenceStore
	saved    chatdb.SavedRoomStore
}

func NewChatService(
	logger *log.Logger,
	accounts database.AccountRepository,
	messages chatdb.MessageStore,
	presence chatdb.PresenceStore,
	saved chatdb.SavedRoomStore,
) *ChatService {
	return &ChatService{
		log:      logger,
		accounts: accounts,
		messages: messages,
		presence: presence,
		saved:    saved,
	}
}

// Register creates an account with a bcrypt password hash and a color drawn
// from the palette.
func (s *ChatService) Register(username, password string) (database.User, error) {
	if username == "" || password == "" {
		return database.User{}, fmt.Errorf("username and password cannot be empty")
	}

	pwdHash, err := hashPassword(password)
	if err != nil {
		return database.User{}, fmt.Errorf("hash password: %w", err)
	}

	color, err := randomColor()
	if err != nil {
		return database.User{}, fmt.Errorf("assign color: %w", err)
	}

	user, err := s.accounts.CreateAccount(database.CreateAccountParams{
		Username:     username,
		Color:        color,
		PasswordHash: pwdHash,
	})
	if err != nil {
		return database.User{}, fmt.Errorf("create account: %w", err)
	}

	return user, nil
}

// Authenticate verifies a username/password pair. Unknown users and wrong
// passwords both return ErrInvalidCredentials.
func (s *ChatService) Authenticate(username, password string) (database.User, error) {
	user, err := s.accounts.GetAccountByUsername(username)
	if err != nil {
		return database.User{}, ErrInvalidCredentials
	}

	if !verifyPassword(user.PasswordHash, password) {
		return database.User{}, ErrInvalidCredentials
	}

	return user, nil
}

func (s *ChatService) ChangePassword(username, oldPassword, newPassword string) error {
	user, err := s.Authenticate(username, oldPassword)
	if err != nil {
		return err
	}

	pwdHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.accounts.UpdateAccountPassword(user.Id, pwdHash); err != nil {
		return fmt.Errorf("update password: %w", err)
	}

	return nil
}

// SetUserColor changes the display color stored on the account. Presence
// entries pick up the new color on the next join.
func (s *ChatService) SetUserColor(username, color string) error {
	user, err := s.accounts.GetAccountByUsername(username)
	if err != nil {
		return fmt.Errorf("lookup account %q: %w", username, err)
	}

	return s.accounts.UpdateAccountColor(user.Id, color)
}

// CreateRoom generates a fresh random room id, derives its short id, inserts
// the room with the creator as admin and first member, and bumps the
// creator's room count. A generated id that collides with an existing room
// surfaces as the insert error; ids are drawn from [1, MaxInt64] so in
// practice this does not happen.
func (s *ChatService) CreateRoom(username, name string) (database.Room, error) {
	admin, err := s.accounts.GetAccountByUsername(username)
	if err != nil {
		return database.Room{}, fmt.Errorf("lookup account %q: %w", username, err)
	}

	id, err := roomid.New()
	if err != nil {
		return database.Room{}, fmt.Errorf("generate room id: %w", err)
	}

	shortId, err := roomid.Encode(id)
	if err != nil {
		return database.Room{}, fmt.Errorf("encode room id: %w", err)
	}

	room, err := s.accounts.CreateRoom(database.CreateRoomParams{
		Id:      id,
		ShortId: shortId,
		Name:    name,
		AdminId: admin.Id,
	})
	if err != nil {
		return database.Room{}, fmt.Errorf("create room: %w", err)
	}

	if _, err := s.accounts.IncrementRoomCount(admin.Id); err != nil {
		return database.Room{}, fmt.Errorf("increment room count: %w", err)
	}

	s.log.Printf("created room %q with short id %q for %q", name, shortId, username)
	return room, nil
}

func (s *ChatService) lookupRoom(shortId string) (database.Room, error) {
	// reject malformed ids before touching the store
	if _, err := roomid.Decode(shortId); err != nil {
		return database.Room{}, fmt.Errorf("invalid short id %q: %w", shortId, err)
	}

	room, err := s.accounts.GetRoomByShortId(shortId)
	if err != nil {
		return database.Room{}, fmt.Errorf("lookup room %q: %w", shortId, err)
	}

	return room, nil
}

// JoinRoom makes the user a member of the room (once) and marks them present
// with their account color.
func (s *ChatService) JoinRoom(ctx context.Context, username, shortId string) (database.Room, error) {
	room, err := s.lookupRoom(shortId)
	if err != nil {
		return database.Room{}, err
	}

	user, err := s.accounts.GetAccountByUsername(username)
	if err != nil {
		return database.Room{}, fmt.Errorf("lookup account %q: %w", username, err)
	}

	if !s.accounts.MemberExists(room.Id, user.Id) {
		if err := s.accounts.AddMember(room.Id, user.Id); err != nil {
			return database.Room{}, fmt.Errorf("add member: %w", err)
		}
	}

	if err := s.presence.Join(ctx, user.Username, room.ShortId, user.Color); err != nil {
		return database.Room{}, err
	}

	return room, nil
}

// LeaveRoom clears the user's presence entry. Membership is kept: leaving a
// room does not forget that the user belongs to it.
func (s *ChatService) LeaveRoom(ctx context.Context, username, shortId string) error {
	room, err := s.lookupRoom(shortId)
	if err != nil {
		return err
	}

	return s.presence.Leave(ctx, username, room.ShortId)
}

// PostMessage appends a chat message to the room's log. Persistence is best
// effort: only the room lookup can fail here, never the write itself.
func (s *ChatService) PostMessage(ctx context.Context, username, shortId, message string) error {
	room, err := s.lookupRoom(shortId)
	if err != nil {
		return err
	}

	s.messages.CommitMessage(ctx, room.ShortId, message, username)
	return nil
}

func (s *ChatService) RecentMessages(ctx context.Context, shortId string, limit int) ([]chatdb.ChatMessage, error) {
	room, err := s.lookupRoom(shortId)
	if err != nil {
		return nil, err
	}

	return s.messages.RecentMessages(ctx, room.ShortId, limit)
}

func (s *ChatService) RoomUsers(ctx context.Context, shortId string) ([]string, int, error) {
	room, err := s.lookupRoom(shortId)
	if err != nil {
		return nil, 0, err
	}

	return s.presence.ListUsers(ctx, room.ShortId)
}

func (s *ChatService) UserColor(ctx context.Context, username, shortId string) (string, error) {
	room, err := s.lookupRoom(shortId)
	if err != nil {
		return "", err
	}

	return s.presence.Color(ctx, username, room.ShortId)
}

// RoomMembers returns the accounts subscribed to a room, present or not.
func (s *ChatService) RoomMembers(shortId string) ([]database.User, error) {
	room, err := s.lookupRoom(shortId)
	if err != nil {
		return nil, err
	}

	return s.accounts.GetMembers(room.Id)
}

// MemberRooms returns the rooms a user has joined.
func (s *ChatService) MemberRooms(username string) ([]database.Room, error) {
	user, err := s.accounts.GetAccountByUsername(username)
	if err != nil {
		return nil, fmt.Errorf("lookup account %q: %w", username, err)
	}

	return s.accounts.ListRoomsForAccount(user.Id)
}

// BookmarkRoom records a saved-room entry for the user, keyed by the room's
// integer id. Duplicate bookmarks are allowed.
func (s *ChatService) BookmarkRoom(ctx context.Context, username string, roomId int64) error {
	room, err := s.accounts.GetRoomById(roomId)
	if err != nil {
		return fmt.Errorf("lookup room %d: %w", roomId, err)
	}

	admin, err := s.accounts.GetAccountById(room.AdminId)
	if err != nil {
		return fmt.Errorf("lookup admin for room %d: %w", roomId, err)
	}

	return s.saved.SaveRoom(ctx, chatdb.SavedRoom{
		Id:       room.Id,
		RoomName: room.Name,
		Admin:    admin.Username,
		User:     username,
	})
}

func (s *ChatService) Bookmarks(ctx context.Context, username string) ([]chatdb.SavedRoomEntry, error) {
	return s.saved.SavedRooms(ctx, username)
}

func hashPassword(passwd string) (string, error) {
	passwdHash, err := bcrypt.GenerateFromPassword([]byte(passwd), bcrypt.DefaultCost)
	return string(passwdHash), err
}

func verifyPassword(passwdHash, passwd string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(passwdHash), []byte(passwd))
	return err == nil
}

func randomColor() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(colorPalette))))
	if err != nil {
		return "", err
	}

	return colorPalette[n.Int64()], nil
}
