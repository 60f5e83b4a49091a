package database

import (
	"database/sql"
)

type PgAccountRepository struct {
	conn *sql.DB
}

func NewPgAccountRepository(dsn string) (*PgAccountRepository, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &PgAccountRepository{conn: db}, nil
}

func (db *PgAccountRepository) Ping() error {
	return db.conn.Ping()
}

func (db *PgAccountRepository) Close() error {
	if db.conn != nil {
		return db.conn.Close()
	}
	return nil
}
