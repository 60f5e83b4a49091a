package database

import (
	"fmt"
	"time"
)

const addMemberQuery = "INSERT INTO room_members (room_id, user_id) VALUES ($1, $2)"

func (db *PgAccountRepository) CreateAccount(params CreateAccountParams) (User, error) {
	res := db.conn.QueryRow(
		"INSERT INTO accounts (username, color, password_hash, room_count, created_at, updated_at) "+
			"VALUES ($1, $2, $3, 0, $4, $4) RETURNING id, username, color, room_count",
		params.Username,
		params.Color,
		params.PasswordHash,
		time.Now().UTC(),
	)

	var u User
	err := res.Scan(
		&u.Id,
		&u.Username,
		&u.Color,
		&u.RoomCount,
	)

	return u, err
}

func (db *PgAccountRepository) GetAccountById(accountId int64) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, color, password_hash, room_count FROM accounts "+
			"WHERE id = $1 LIMIT 1",
		accountId,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.Color,
		&user.PasswordHash,
		&user.RoomCount,
	)

	return user, err
}

func (db *PgAccountRepository) GetAccountByUsername(username string) (User, error) {
	row := db.conn.QueryRow(
		"SELECT id, username, color, password_hash, room_count FROM accounts "+
			"WHERE username = $1 LIMIT 1",
		username,
	)

	var user User
	err := row.Scan(
		&user.Id,
		&user.Username,
		&user.Color,
		&user.PasswordHash,
		&user.RoomCount,
	)

	return user, err
}

func (db *PgAccountRepository) UpdateAccountColor(accountId int64, color string) error {
	_, err := db.conn.Exec(
		"UPDATE accounts SET color = $2, updated_at = $3 WHERE id = $1",
		accountId,
		color,
		time.Now().UTC(),
	)

	return err
}

func (db *PgAccountRepository) UpdateAccountPassword(accountId int64, passwordHash string) error {
	_, err := db.conn.Exec(
		"UPDATE accounts SET password_hash = $2, updated_at = $3 WHERE id = $1",
		accountId,
		passwordHash,
		time.Now().UTC(),
	)

	return err
}

// IncrementRoomCount bumps the account's room-creation counter and returns
// the new value. The counter only ever grows.
func (db *PgAccountRepository) IncrementRoomCount(accountId int64) (int, error) {
	res := db.conn.QueryRow(
		"UPDATE accounts SET room_count = room_count + 1, updated_at = $2 "+
			"WHERE id = $1 RETURNING room_count",
		accountId,
		time.Now().UTC(),
	)

	var count int
	err := res.Scan(&count)

	return count, err
}

// CreateRoom inserts the room record and the admin's membership in one
// transaction. The id is caller-generated; a collision surfaces as the
// primary-key violation from the insert.
func (db *PgAccountRepository) CreateRoom(params CreateRoomParams) (Room, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return Room{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res := tx.QueryRow(
		"INSERT INTO rooms (id, short_id, name, admin_id, created) "+
			"VALUES ($1, $2, $3, $4, $5) RETURNING id, short_id, name, admin_id, created",
		params.Id,
		params.ShortId,
		params.Name,
		params.AdminId,
		time.Now().UTC(),
	)

	var room Room
	err = res.Scan(
		&room.Id,
		&room.ShortId,
		&room.Name,
		&room.AdminId,
		&room.Created,
	)
	if err != nil {
		return Room{}, err
	}

	_, err = tx.Exec(addMemberQuery, room.Id, params.AdminId)
	if err != nil {
		return Room{}, err
	}

	if err = tx.Commit(); err != nil {
		return Room{}, err
	}

	return room, err
}

func (db *PgAccountRepository) GetRoomById(roomId int64) (Room, error) {
	row := db.conn.QueryRow(
		"SELECT id, short_id, name, admin_id, created FROM rooms "+
			"WHERE id = $1 LIMIT 1",
		roomId,
	)

	var room Room
	err := row.Scan(
		&room.Id,
		&room.ShortId,
		&room.Name,
		&room.AdminId,
		&room.Created,
	)

	return room, err
}

func (db *PgAccountRepository) GetRoomByShortId(shortId string) (Room, error) {
	row := db.conn.QueryRow(
		"SELECT id, short_id, name, admin_id, created FROM rooms "+
			"WHERE short_id = $1 LIMIT 1",
		shortId,
	)

	var room Room
	err := row.Scan(
		&room.Id,
		&room.ShortId,
		&room.Name,
		&room.AdminId,
		&room.Created,
	)

	return room, err
}

func (db *PgAccountRepository) AddMember(roomId, accountId int64) error {
	_, err := db.conn.Exec(addMemberQuery, roomId, accountId)

	return err
}

func (db *PgAccountRepository) MemberExists(roomId, accountId int64) bool {
	res := db.conn.QueryRow(
		"SELECT 1 FROM room_members WHERE room_id = $1 AND user_id = $2 LIMIT 1",
		roomId,
		accountId,
	)

	var one int
	err := res.Scan(&one)

	return err == nil
}

func (db *PgAccountRepository) ListRoomsForAccount(accountId int64) ([]Room, error) {
	rows, err := db.conn.Query(
		"SELECT r.id, r.short_id, r.name, r.admin_id, r.created FROM room_members m "+
			"JOIN rooms r ON r.id = m.room_id WHERE m.user_id = $1",
		accountId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []Room
	for rows.Next() {
		var room Room
		if err = rows.Scan(&room.Id, &room.ShortId, &room.Name, &room.AdminId, &room.Created); err != nil {
			break
		}

		rooms = append(rooms, room)
	}
	return rooms, err
}

func (db *PgAccountRepository) GetMembers(roomId int64) ([]User, error) {
	rows, err := db.conn.Query(
		"SELECT a.id, a.username, a.color FROM room_members m "+
			"JOIN accounts a ON m.user_id = a.id WHERE m.room_id = $1",
		roomId,
	)
	if err != nil {
		return nil, fmt.Errorf("fetch members for room %d: %w", roomId, err)
	}
	defer rows.Close()

	var members = make([]User, 0)
	for rows.Next() {
		var member User
		if err = rows.Scan(&member.Id, &member.Username, &member.Color); err != nil {
			break
		}

		members = append(members, member)
	}

	return members, err
}
