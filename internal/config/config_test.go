package config

import (
	"reflect"
	"testing"
	"time"

	"github.com/apex/log"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatal(err)
	}
	want := Config{
		Addr:         ":3000",
		AllowOrigins: []string{"http://localhost:5173"},
		LogLevel:     log.InfoLevel,
		LogFormat:    "text",
		AIDelay:      800 * time.Millisecond,
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestLoadEnvAndFlags(t *testing.T) {
	t.Setenv("CHESS_ADDR", ":8080")
	t.Setenv("CHESS_AI_DELAY", "0")
	t.Setenv("CHESS_LOG_FORMAT", "json")

	cfg, err := Load([]string{"-addr", ":9090", "-allow-origins", "http://a.test, http://b.test", "-ai-seed", "42", "-log-level", "debug"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("flag should win over env: addr = %q", cfg.Addr)
	}
	if cfg.AIDelay != 0 || cfg.LogFormat != "json" || cfg.Seed != 42 || cfg.LogLevel != log.DebugLevel {
		t.Errorf("cfg = %+v", cfg)
	}
	if !reflect.DeepEqual(cfg.AllowOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("origins = %v", cfg.AllowOrigins)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	for _, args := range [][]string{
		{"-log-level", "loud"},
		{"-log-format", "xml"},
		{"-ai-delay", "soon"},
		{"-ai-delay", "-1s"},
		{"-ai-seed", "x"},
		{"-unknown"},
	} {
		if _, err := Load(args); err == nil {
			t.Errorf("Load(%v) succeeded", args)
		}
	}
}
