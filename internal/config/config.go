package config

import (
	"fmt"
)

type Config struct {
	DatabaseDSN string
	RedisURL    string
	DebugAddr   string
}

func NewConfig(debugAddr, databaseDSN, redisURL string) (*Config, error) {
	if debugAddr == "" {
		return nil, fmt.Errorf("debug address cannot be empty")
	}
	if databaseDSN == "" {
		return nil, fmt.Errorf("database DSN cannot be empty")
	}
	if redisURL == "" {
		return nil, fmt.Errorf("redis URL cannot be empty")
	}

	return &Config{
		DatabaseDSN: databaseDSN,
		RedisURL:    redisURL,
		DebugAddr:   debugAddr,
	}, nil
}
