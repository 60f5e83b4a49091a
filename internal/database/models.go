package database

import "time"

type User struct {
	Id           int64
	Username     string
	Color        string
	PasswordHash string
	RoomCount    int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Room struct {
	Id      int64
	ShortId string
	Name    string
	AdminId int64
	Created time.Time
}

type CreateAccountParams struct {
	Username     string
	Color        string
	PasswordHash string
}

type CreateRoomParams struct {
	Id      int64
	ShortId string
	Name    string
	AdminId int64
}
