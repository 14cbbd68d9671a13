package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	os.Setenv("MONGODB_URI", "mongodb://localhost:27017/testdb")
	os.Setenv("MONGODB_DATABASE", "orgvault_test")
	os.Setenv("REDIS_HOST", "localhost")
	os.Setenv("REDIS_PORT", "6379")
	os.Setenv("OAUTH_CLIENT_ID", "client-id")
	os.Setenv("OAUTH_CLIENT_SECRET", "client-secret")
	os.Setenv("SESSION_SECRET", "testsecret123456789012345678901234")
	defer func() {
		for _, k := range []string{"MONGODB_URI", "MONGODB_DATABASE", "REDIS_HOST", "REDIS_PORT", "OAUTH_CLIENT_ID", "OAUTH_CLIENT_SECRET", "SESSION_SECRET"} {
			os.Unsetenv(k)
		}
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.MongoDB.URI == "" || cfg.Redis.Host == "" {
		t.Fatalf("unexpected empty config values: %+v", cfg)
	}
	if cfg.OAuth.Provider != "github" {
		t.Fatalf("expected default provider github, got %q", cfg.OAuth.Provider)
	}
	if cfg.OAuth.DefaultOrg != "DefaultOrg" {
		t.Fatalf("unexpected default org: %q", cfg.OAuth.DefaultOrg)
	}
	if cfg.Bridge.TokenTTL != 10*time.Minute {
		t.Fatalf("unexpected bridge token TTL: %v", cfg.Bridge.TokenTTL)
	}
}
