package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBPath        string
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()
	token := os.Getenv("TELEGRAM_TOKEN")
	if token == "" {
		return nil, ErrNoToken{}
	}
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "ritten-bot.db"
	}
	return &Config{TelegramToken: token, DBPath: dbPath}, nil
}

type ErrNoToken struct{}

func (e ErrNoToken) Error() string {
	return "TELEGRAM_TOKEN is not set"
}
