package server

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config 进程级配置：命令行参数优先，其次环境变量（可来自 .env）
type Config struct {
	Addr        string
	LogFile     string
	LogLevel    string
	StaticDir   string
	ScoresFile  string
	DatabaseURL string
	TuningFile  string
	DefaultRoom string
	MaxRooms    int
}

// LoadConfig 读取 .env（不存在时忽略）并解析参数
func LoadConfig(args []string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	var cfg Config
	fset := flag.NewFlagSet("zonearena", flag.ContinueOnError)
	fset.StringVar(&cfg.Addr, "addr", envOr("ADDR", ":3000"), "server listen address, e.g. :3000")
	fset.StringVar(&cfg.LogFile, "log-file", envOr("LOG_FILE", "app.log"), "rolling log file path")
	fset.StringVar(&cfg.LogLevel, "log-level", envOr("LOG_LEVEL", "info"), "debug, info, warn or error")
	fset.StringVar(&cfg.StaticDir, "static", envOr("STATIC_DIR", "public"), "directory served at /")
	fset.StringVar(&cfg.ScoresFile, "scores", envOr("SCORES_FILE", "scores.json"), "high score file (ignored when -database-url is set)")
	fset.StringVar(&cfg.DatabaseURL, "database-url", os.Getenv("DATABASE_URL"), "postgres connection string for high scores")
	fset.StringVar(&cfg.TuningFile, "tuning", os.Getenv("TUNING_FILE"), "optional JSON tuning file")
	fset.StringVar(&cfg.DefaultRoom, "room", envOr("DEFAULT_ROOM", "arena-1"), "room created at startup")
	maxRooms, err := strconv.Atoi(envOr("MAX_ROOMS", "8"))
	if err != nil {
		return Config{}, fmt.Errorf("MAX_ROOMS: %w", err)
	}
	fset.IntVar(&cfg.MaxRooms, "max-rooms", maxRooms, "upper bound on live rooms, default room included")
	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
