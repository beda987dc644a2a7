package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"msgdict/msg"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	DatabaseURL string
	WorkerCount int
	Encoding    string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("No .env file found, using environment variables")
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", "postgres://localhost:5432/msgdict?sslmode=disable"),
		WorkerCount: getEnvInt("WORKER_COUNT", 8),
		Encoding:    getEnv("MSG_ENCODING", "utf8"),
	}
}

// Converter maps the configured encoding name to a msg value converter.
func (c *Config) Converter() (msg.Converter, error) {
	switch strings.ToLower(c.Encoding) {
	case "", "utf8", "utf-8":
		return msg.DefaultConverter, nil
	case "cp1251", "windows-1251":
		return msg.CP1251Converter(), nil
	case "cp866", "ibm866":
		return msg.CP866Converter(), nil
	default:
		return nil, fmt.Errorf("unknown encoding %q", c.Encoding)
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
