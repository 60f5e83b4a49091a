package database

import (
	"github.com/stretchr/testify/mock"
)

type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Ping() error {
	args := m.Called()
	return args.Error(0)
}
func (m *MockAccountRepository) CreateAccount(params CreateAccountParams) (User, error) {
	args := m.Called(params)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockAccountRepository) GetAccountById(accountId int64) (User, error) {
	args := m.Called(accountId)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockAccountRepository) GetAccountByUsername(username string) (User, error) {
	args := m.Called(username)
	return args.Get(0).(User), args.Error(1)
}
func (m *MockAccountRepository) UpdateAccountColor(accountId int64, color string) error {
	args := m.Called(accountId, color)
	return args.Error(0)
}
func (m *MockAccountRepository) UpdateAccountPassword(accountId int64, passwordHash string) error {
	args := m.Called(accountId, passwordHash)
	return args.Error(0)
}
func (m *MockAccountRepository) IncrementRoomCount(accountId int64) (int, error) {
	args := m.Called(accountId)
	return args.Int(0), args.Error(1)
}
func (m *MockAccountRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	args := m.Called(params)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockAccountRepository) GetRoomById(roomId int64) (Room, error) {
	args := m.Called(roomId)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockAccountRepository) GetRoomByShortId(shortId string) (Room, error) {
	args := m.Called(shortId)
	return args.Get(0).(Room), args.Error(1)
}
func (m *MockAccountRepository) AddMember(roomId, accountId int64) error {
	args := m.Called(roomId, accountId)
	return args.Error(0)
}
func (m *MockAccountRepository) MemberExists(roomId, accountId int64) bool {
	args := m.Called(roomId, accountId)
	return args.Bool(0)
}
func (m *MockAccountRepository) ListRoomsForAccount(accountId int64) ([]Room, error) {
	args := m.Called(accountId)
	return args.Get(0).([]Room), args.Error(1)
}
func (m *MockAccountRepository) GetMembers(roomId int64) ([]User, error) {
	args := m.Called(roomId)
	return args.Get(0).([]User), args.Error(1)
}
