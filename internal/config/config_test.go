package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoadEngineConfigDefaults(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "Asia/Kolkata")
	cfg := LoadEngineConfig()
	if cfg.Location.String() != "Asia/Kolkata" {
		t.Fatalf("location = %s", cfg.Location)
	}
	if cfg.DefaultSeriesDays != 7 || cfg.MaxSeriesDays != 366 || cfg.GoalAlertPercent != 50 || cfg.SyncLockTTL != 2*time.Minute {
		t.Fatalf("defaults = %+v", cfg)
	}
}

func TestLoadEngineConfigOverrides(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("SERIES_DEFAULT_DAYS", "30")
	t.Setenv("GOAL_ALERT_PERCENT", "62.5")
	t.Setenv("CANCELLATION_RATE_PERCENT", "not-a-number")
	t.Setenv("SYNC_LOCK_TTL", "45s")
	cfg := LoadEngineConfig()
	if cfg.DefaultSeriesDays != 30 || cfg.GoalAlertPercent != 62.5 || cfg.SyncLockTTL != 45*time.Second {
		t.Fatalf("overrides = %+v", cfg)
	}
	if cfg.CancellationRatePercent != 20 {
		t.Fatalf("invalid float should keep default, got %v", cfg.CancellationRatePercent)
	}
}

func TestNewLoggerLevelAndFormat(t *testing.T) {
	l := NewLogger("debug", "text")
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %s", l.GetLevel())
	}
	if _, ok := l.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("formatter = %T", l.Formatter)
	}
	l = NewLogger("nonsense", "")
	if l.GetLevel() != logrus.InfoLevel {
		t.Fatalf("fallback level = %s", l.GetLevel())
	}
	if _, ok := l.Formatter.(*logrus.JSONFormatter); !ok {
		t.Fatalf("fallback formatter = %T", l.Formatter)
	}
}

func TestLogErrorFields(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger("info", "json")
	l.SetOutput(&buf)
	LogError(l, "daily_income", "Sync", "date failed", map[string]string{"date": "2024-05-01"}, errors.New("boom"))
	out := buf.String()
	for _, want := range []string{`"module":"daily_income"`, `"funcName":"Sync"`, `"msg":"boom"`, `"date":"2024-05-01"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log line %q missing %s", out, want)
		}
	}
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_KEY_STRATEGY", "bogus")
	t.Setenv("RATE_LIMIT_ENABLED", "off")

	cfg := LoadRateLimitConfig()
	if cfg.Enabled {
		t.Fatalf("expected disabled")
	}
	if cfg.Capacity != 5 || cfg.RefillTokens != 1 || cfg.RefillInterval != 2*time.Second {
		t.Fatalf("unexpected bucket settings %+v", cfg)
	}
	if cfg.TTL != 10*time.Second {
		t.Fatalf("TTL = %s, want clamp to 10s", cfg.TTL)
	}
	if cfg.KeyStrategy != "user_route" {
		t.Fatalf("KeyStrategy = %q", cfg.KeyStrategy)
	}
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	if cfg.Enabled {
		t.Fatalf("cache must be opt-in")
	}
	if cfg.TTL != 5*time.Minute || cfg.Prefix != "export" || cfg.MaxBodyBytes != 4<<20 {
		t.Fatalf("unexpected %+v", cfg)
	}
}

func TestNewRedisClientDisabled(t *testing.T) {
	t.Setenv("REDIS_ENABLED", "false")
	if c := NewRedisClient(NewLogger("error", "text")); c != nil {
		t.Fatalf("expected nil client")
	}
}
