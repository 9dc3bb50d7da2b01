package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("RESTAURANT_STORAGE", "memory")
	t.Setenv("RESTAURANT_JWT_KEY", strings.Repeat("k", 32))
	t.Setenv("RESTAURANT_ALLOWED_ORIGINS", "http://a.test, http://b.test,")
	t.Setenv("RESTAURANT_SLOW_REQUEST_MS", "250")
	t.Setenv("RESTAURANT_MAX_PAGE_SIZE", "20")

	env, err := LoadFrom(viper.New())
	if err != nil {
		t.Fatalf("LoadFrom returned error: %v", err)
	}
	if env.Storage != StorageMemory || env.MaxPageSize != 20 || env.SlowRequest != 250*time.Millisecond {
		t.Fatalf("unexpected env %+v", env)
	}
	if len(env.AllowedOrigins) != 2 || env.AllowedOrigins[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", env.AllowedOrigins)
	}
	if env.AppAddr != ":8080" || env.JWTExpireDays != 15 {
		t.Fatalf("defaults not applied: %+v", env)
	}
}

func TestLoadFromRejectsWeakKeyAndUnknownStorage(t *testing.T) {
	t.Setenv("RESTAURANT_STORAGE", "postgres")
	t.Setenv("RESTAURANT_JWT_KEY", "short")

	_, err := LoadFrom(viper.New())
	if err == nil {
		t.Fatalf("expected validation error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "jwt_key") || !strings.Contains(msg, "unknown storage") {
		t.Fatalf("expected both problems reported, got %q", msg)
	}
}
