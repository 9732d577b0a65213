package config

import (
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	// Empty values disable the corresponding store; the engine then runs
	// fully in memory.
	RedisURL    string
	DatabaseURL string

	HistoryLimit int

	MsgTemplateDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		HistoryLimit: 10,
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	cfg.MsgTemplateDir = strings.TrimSpace(os.Getenv("MSG_TEMPLATE_DIR"))

	if v := strings.TrimSpace(os.Getenv("HISTORY_LIMIT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.HistoryLimit = n
		}
	}

	return cfg, nil
}
