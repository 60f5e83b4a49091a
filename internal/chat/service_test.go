package chat

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/crenwick/chatstore/internal/chatdb"
	"github.com/crenwick/chatstore/internal/database"
	"github.com/crenwick/chatstore/internal/roomid"
	"github.com/crenwick/chatstore/internal/testutil"
)

type serviceMocks struct {
	accounts *database.MockAccountRepository
	messages *chatdb.MockMessageStore
	presence *chatdb.MockPresenceStore
	saved    *chatdb.MockSavedRoomStore
}

func newTestService(t *testing.T) (*ChatService, *serviceMocks) {
	t.Helper()

	m := &serviceMocks{
		accounts: &database.MockAccountRepository{},
		messages: &chatdb.MockMessageStore{},
		presence: &chatdb.MockPresenceStore{},
		saved:    &chatdb.MockSavedRoomStore{},
	}

	svc := NewChatService(testutil.TestLogger(t), m.accounts, m.messages, m.presence, m.saved)
	return svc, m
}

func mustHash(t *testing.T, passwd string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(passwd), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func TestRegister(t *testing.T) {
	t.Run("creates account with hashed password and palette color", func(t *testing.T) {
		svc, m := newTestService(t)

		m.accounts.On("CreateAccount", mock.MatchedBy(func(p database.CreateAccountParams) bool {
			if p.Username != "alice" {
				return false
			}
			if bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte("s3cret")) != nil {
				return false
			}
			for _, c := range colorPalette {
				if p.Color == c {
					return true
				}
			}
			return false
		})).Return(database.User{Id: 1, Username: "alice", Color: "red"}, nil)

		user, err := svc.Register("alice", "s3cret")
		require.NoError(t, err, "expected registration to succeed")
		assert.Equal(t, "alice", user.Username, "expected the created user to be returned")
		m.accounts.AssertExpectations(t)
	})

	t.Run("rejects empty username or password", func(t *testing.T) {
		svc, _ := newTestService(t)

		_, err := svc.Register("", "s3cret")
		assert.Error(t, err, "expected an error for an empty username")

		_, err = svc.Register("alice", "")
		assert.Error(t, err, "expected an error for an empty password")
	})

	t.Run("propagates repository errors", func(t *testing.T) {
		svc, m := newTestService(t)

		m.accounts.On("CreateAccount", mock.Anything).
			Return(database.User{}, errors.New("duplicate username"))

		_, err := svc.Register("alice", "s3cret")
		assert.Error(t, err, "expected the create failure to surface")
	})
}

func TestAuthenticate(t *testing.T) {
	hash := ""

	tcases := []struct {
		name     string
		username string
		password string
		setup    func(m *serviceMocks)
		err      error
	}{
		{
			name:     "valid credentials",
			username: "alice",
			password: "s3cret",
			setup: func(m *serviceMocks) {
				m.accounts.On("GetAccountByUsername", "alice").
					Return(database.User{Id: 1, Username: "alice", PasswordHash: hash}, nil)
			},
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "s3cret",
			setup: func(m *serviceMocks) {
				m.accounts.On("GetAccountByUsername", "ghost").
					Return(database.User{}, errors.New("no rows"))
			},
			err: ErrInvalidCredentials,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "not-it",
			setup: func(m *serviceMocks) {
				m.accounts.On("GetAccountByUsername", "alice").
					Return(database.User{Id: 1, Username: "alice", PasswordHash: hash}, nil)
			},
			err: ErrInvalidCredentials,
		},
	}

	for _, tc := range tcases {
		t.Run(tc.name, func(t *testing.T) {
			svc, m := newTestService(t)
			hash = mustHash(t, "s3cret")
			tc.setup(m)

			user, err := svc.Authenticate(tc.username, tc.password)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err, "expected authentication to fail")
				return
			}
			require.NoError(t, err, "expected authentication to succeed")
			assert.Equal(t, tc.username, user.Username, "expected the account to be returned")
		})
	}
}

func TestChangePassword(t *testing.T) {
	svc, m := newTestService(t)
	hash := mustHash(t, "old-pw")

	m.accounts.On("GetAccountByUsername", "alice").
		Return(database.User{Id: 1, Username: "alice", PasswordHash: hash}, nil)
	m.accounts.On("UpdateAccountPassword", int64(1), mock.MatchedBy(func(newHash string) bool {
		return bcrypt.CompareHashAndPassword([]byte(newHash), []byte("new-pw")) == nil
	})).Return(nil)

	err := svc.ChangePassword("alice", "old-pw", "new-pw")
	require.NoError(t, err, "expected password change to succeed")
	m.accounts.AssertExpectations(t)

	err = svc.ChangePassword("alice", "wrong", "new-pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "expected the old password to be verified")
}

func TestSetUserColor(t *testing.T) {
	svc, m := newTestService(t)

	m.accounts.On("GetAccountByUsername", "alice").
		Return(database.User{Id: 1, Username: "alice", Color: "red"}, nil)
	m.accounts.On("UpdateAccountColor", int64(1), "teal").Return(nil)

	err := svc.SetUserColor("alice", "teal")
	require.NoError(t, err, "expected color update to succeed")
	m.accounts.AssertExpectations(t)
}

func TestCreateRoom(t *testing.T) {
	svc, m := newTestService(t)

	m.accounts.On("GetAccountByUsername", "alice").
		Return(database.User{Id: 7, Username: "alice", Color: "red"}, nil)
	m.accounts.On("CreateRoom", mock.MatchedBy(func(p database.CreateRoomParams) bool {
		if p.Id <= 0 || p.Name != "general" || p.AdminId != 7 {
			return false
		}
		short, err := roomid.Encode(p.Id)
		return err == nil && short == p.ShortId
	})).Return(database.Room{Id: 1234, ShortId: "bcd", Name: "general", AdminId: 7}, nil)
	m.accounts.On("IncrementRoomCount", int64(7)).Return(1, nil)

	room, err := svc.CreateRoom("alice", "general")
	require.NoError(t, err, "expected room creation to succeed")
	assert.Equal(t, "general", room.Name, "expected the created room to be returned")
	m.accounts.AssertExpectations(t)
}

func TestCreateRoomIncrementFailure(t *testing.T) {
	svc, m := newTestService(t)

	m.accounts.On("GetAccountByUsername", "alice").
		Return(database.User{Id: 7, Username: "alice"}, nil)
	m.accounts.On("CreateRoom", mock.Anything).
		Return(database.Room{Id: 1234, ShortId: "bcd", AdminId: 7}, nil)
	m.accounts.On("IncrementRoomCount", int64(7)).Return(0, errors.New("connection reset"))

	_, err := svc.CreateRoom("alice", "general")
	assert.Error(t, err, "expected the count failure to surface")
}

func TestJoinRoom(t *testing.T) {
	room := database.Room{Id: 99, ShortId: "cq", Name: "general", AdminId: 7}

	t.Run("adds membership and presence for a first join", func(t *testing.T) {
		svc, m := newTestService(t)

		m.accounts.On("GetRoomByShortId", "cq").Return(room, nil)
		m.accounts.On("GetAccountByUsername", "bob").
			Return(database.User{Id: 3, Username: "bob", Color: "blue"}, nil)
		m.accounts.On("MemberExists", int64(99), int64(3)).Return(false)
		m.accounts.On("AddMember", int64(99), int64(3)).Return(nil)
		m.presence.On("Join", mock.Anything, "bob", "cq", "blue").Return(nil)

		joined, err := svc.JoinRoom(context.Background(), "bob", "cq")
		require.NoError(t, err, "expected join to succeed")
		assert.Equal(t, room, joined, "expected the joined room to be returned")
		m.accounts.AssertExpectations(t)
		m.presence.AssertExpectations(t)
	})

	t.Run("does not re-add an existing member", func(t *testing.T) {
		svc, m := newTestService(t)

		m.accounts.On("GetRoomByShortId", "cq").Return(room, nil)
		m.accounts.On("GetAccountByUsername", "bob").
			Return(database.User{Id: 3, Username: "bob", Color: "blue"}, nil)
		m.accounts.On("MemberExists", int64(99), int64(3)).Return(true)
		m.presence.On("Join", mock.Anything, "bob", "cq", "blue").Return(nil)

		_, err := svc.JoinRoom(context.Background(), "bob", "cq")
		require.NoError(t, err)
		m.accounts.AssertNotCalled(t, "AddMember", mock.Anything, mock.Anything)
	})

	t.Run("rejects a malformed short id before any lookup", func(t *testing.T) {
		svc, m := newTestService(t)

		_, err := svc.JoinRoom(context.Background(), "bob", "c0q")
		assert.ErrorIs(t, err, roomid.ErrInvalidChar, "expected the codec error to surface")
		m.accounts.AssertNotCalled(t, "GetRoomByShortId", mock.Anything)
	})
}

func TestLeaveRoom(t *testing.T) {
	svc, m := newTestService(t)
	room := database.Room{Id: 99, ShortId: "cq", Name: "general"}

	m.accounts.On("GetRoomByShortId", "cq").Return(room, nil)
	m.presence.On("Leave", mock.Anything, "bob", "cq").Return(nil)

	err := svc.LeaveRoom(context.Background(), "bob", "cq")
	require.NoError(t, err, "expected leave to succeed")
	m.presence.AssertExpectations(t)
}

func TestPostMessage(t *testing.T) {
	t.Run("commits via the message store", func(t *testing.T) {
		svc, m := newTestService(t)

		m.accounts.On("GetRoomByShortId", "cq").
			Return(database.Room{Id: 99, ShortId: "cq"}, nil)
		m.messages.On("CommitMessage", mock.Anything, "cq", "hello", "bob").Return()

		err := svc.PostMessage(context.Background(), "bob", "cq", "hello")
		require.NoError(t, err, "expected posting to succeed")
		m.messages.AssertExpectations(t)
	})

	t.Run("only the room lookup can fail", func(t *testing.T) {
		svc, m := newTestService(t)

		m.accounts.On("GetRoomByShortId", "cq").
			Return(database.Room{}, errors.New("no rows"))

		err := svc.PostMessage(context.Background(), "bob", "cq", "hello")
		assert.Error(t, err, "expected the lookup failure to surface")
		m.messages.AssertNotCalled(t, "CommitMessage", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRecentMessages(t *testing.T) {
	svc, m := newTestService(t)
	expected := []chatdb.ChatMessage{{Room: "cq", Message: "hi", User: "bob"}}

	m.accounts.On("GetRoomByShortId", "cq").
		Return(database.Room{Id: 99, ShortId: "cq"}, nil)
	m.messages.On("RecentMessages", mock.Anything, "cq", 5).Return(expected, nil)

	msgs, err := svc.RecentMessages(context.Background(), "cq", 5)
	require.NoError(t, err, "expected history fetch to succeed")
	assert.Equal(t, expected, msgs, "expected messages from the store")
}

func TestUserColor(t *testing.T) {
	svc, m := newTestService(t)

	m.accounts.On("GetRoomByShortId", "cq").
		Return(database.Room{Id: 99, ShortId: "cq"}, nil)
	m.presence.On("Color", mock.Anything, "ghost", "cq").
		Return("", fmt.Errorf("%w: ghost", chatdb.ErrNotPresent))

	_, err := svc.UserColor(context.Background(), "ghost", "cq")
	assert.ErrorIs(t, err, chatdb.ErrNotPresent, "expected the lookup miss to surface, not a default")
}

func TestBookmarkRoom(t *testing.T) {
	svc, m := newTestService(t)
	room := database.Room{Id: 99, ShortId: "cq", Name: "general", AdminId: 7}

	m.accounts.On("GetRoomById", int64(99)).Return(room, nil)
	m.accounts.On("GetAccountById", int64(7)).
		Return(database.User{Id: 7, Username: "alice"}, nil)
	m.saved.On("SaveRoom", mock.Anything, chatdb.SavedRoom{
		Id:       99,
		RoomName: "general",
		Admin:    "alice",
		User:     "bob",
	}).Return(nil)

	err := svc.BookmarkRoom(context.Background(), "bob", int64(99))
	require.NoError(t, err, "expected bookmarking to succeed")
	m.saved.AssertExpectations(t)
}

func TestRoomMembers(t *testing.T) {
	svc, m := newTestService(t)
	members := []database.User{{Id: 7, Username: "alice", Color: "red"}}

	m.accounts.On("GetRoomByShortId", "cq").
		Return(database.Room{Id: 99, ShortId: "cq"}, nil)
	m.accounts.On("GetMembers", int64(99)).Return(members, nil)

	got, err := svc.RoomMembers("cq")
	require.NoError(t, err, "expected member listing to succeed")
	assert.Equal(t, members, got, "expected members from the store")
}

func TestMemberRooms(t *testing.T) {
	svc, m := newTestService(t)
	rooms := []database.Room{{Id: 99, ShortId: "cq", Name: "general"}}

	m.accounts.On("GetAccountByUsername", "alice").
		Return(database.User{Id: 7, Username: "alice"}, nil)
	m.accounts.On("ListRoomsForAccount", int64(7)).Return(rooms, nil)

	got, err := svc.MemberRooms("alice")
	require.NoError(t, err, "expected room listing to succeed")
	assert.Equal(t, rooms, got, "expected the user's rooms")
}

func TestBookmarks(t *testing.T) {
	svc, m := newTestService(t)
	expected := []chatdb.SavedRoomEntry{{Id: 99, Name: "general"}, {Id: 99, Name: "general"}}

	m.saved.On("SavedRooms", mock.Anything, "bob").Return(expected, nil)

	entries, err := svc.Bookmarks(context.Background(), "bob")
	require.NoError(t, err, "expected listing bookmarks to succeed")
	assert.Equal(t, expected, entries, "expected duplicates to be preserved in storage order")
}
