package database

// AccountRepository is the relational side of the store: accounts, room
// records and room membership. Implemented by PgAccountRepository.
type AccountRepository interface {
	Ping() error
	CreateAccount(params CreateAccountParams) (User, error)
	GetAccountById(accountId int64) (User, error)
	GetAccountByUsername(username string) (User, error)
	UpdateAccountColor(accountId int64, color string) error
	UpdateAccountPassword(accountId int64, passwordHash string) error
	IncrementRoomCount(accountId int64) (int, error)
	CreateRoom(params CreateRoomParams) (Room, error)
	GetRoomById(roomId int64) (Room, error)
	GetRoomByShortId(shortId string) (Room, error)
	AddMember(roomId, accountId int64) error
	MemberExists(roomId, accountId int64) bool
	ListRoomsForAccount(accountId int64) ([]Room, error)
	GetMembers(roomId int64) ([]User, error)
}
