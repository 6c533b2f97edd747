package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/apex/log"
)

type Config struct {
	Addr         string
	AllowOrigins []string
	LogLevel     log.Level
	LogFormat    string
	AIDelay      time.Duration
	Seed         int64
}

// Load reads flags from args. Every flag falls back to a CHESS_* environment
// variable, then to a built-in default.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("chess-server", flag.ContinueOnError)

	addr := fs.String("addr", env("CHESS_ADDR", ":3000"), "listen address")
	origins := fs.String("allow-origins", env("CHESS_ALLOW_ORIGINS", "http://localhost:5173"), "comma separated CORS origins")
	level := fs.String("log-level", env("CHESS_LOG_LEVEL", "info"), "debug, info, warn, error or fatal")
	format := fs.String("log-format", env("CHESS_LOG_FORMAT", "text"), "text or json")
	delay := fs.String("ai-delay", env("CHESS_AI_DELAY", "800ms"), "pause before the engine replies; 0 answers synchronously")
	seed := fs.String("ai-seed", env("CHESS_AI_SEED", "0"), "engine random seed; 0 seeds from the clock")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Config{Addr: *addr, LogFormat: *format}

	for _, o := range strings.Split(*origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowOrigins = append(cfg.AllowOrigins, o)
		}
	}

	var err error
	if cfg.LogLevel, err = log.ParseLevel(*level); err != nil {
		return Config{}, fmt.Errorf("log level: %w", err)
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("log format: unknown %q", cfg.LogFormat)
	}
	if cfg.AIDelay, err = time.ParseDuration(*delay); err != nil {
		return Config{}, fmt.Errorf("ai delay: %w", err)
	}
	if cfg.AIDelay < 0 {
		return Config{}, fmt.Errorf("ai delay: negative %s", cfg.AIDelay)
	}
	if cfg.Seed, err = strconv.ParseInt(*seed, 10, 64); err != nil {
		return Config{}, fmt.Errorf("ai seed: %w", err)
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}
