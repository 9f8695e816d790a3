package config

import (
	"os"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "MISTRAL_API_KEY", "MISTRAL_BASE_URL", "MISTRAL_VISION_MODEL",
		"MISTRAL_CHAT_MODEL", "MISTRAL_TIMEOUT", "SESSION_DB_PATH",
		"TOAST_TTL_SECONDS", "MOCK_SMART_REPLIES",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}
	if cfg.AI.Enabled() {
		t.Fatal("AI must be disabled without a credential")
	}
	if cfg.AI.VisionModel != "pixtral-12b-2409" {
		t.Fatalf("unexpected vision model: %s", cfg.AI.VisionModel)
	}
	if cfg.AI.ChatModel != "mistral-large-latest" {
		t.Fatalf("unexpected chat model: %s", cfg.AI.ChatModel)
	}
	if cfg.AI.TimeoutSeconds != 30 {
		t.Fatalf("unexpected timeout: %d", cfg.AI.TimeoutSeconds)
	}
	if cfg.Store.Path != "data/session.db" {
		t.Fatalf("unexpected store path: %s", cfg.Store.Path)
	}
	if cfg.Notify.ToastTTL != 5*time.Second {
		t.Fatalf("unexpected toast ttl: %s", cfg.Notify.ToastTTL)
	}
}

func TestLoadPortVariants(t *testing.T) {
	clearEnv(t)

	t.Setenv("PORT", "9090")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}

	t.Setenv("PORT", "127.0.0.1:7070")
	cfg, err = Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:7070" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr)
	}

	t.Setenv("PORT", "bad port")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a PORT with spaces")
	}
}

func TestAIConfigEnabled(t *testing.T) {
	clearEnv(t)

	t.Setenv("MISTRAL_API_KEY", "secret")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if !cfg.AI.Enabled() {
		t.Fatal("AI should be enabled with a credential")
	}
}

func TestEmptySessionPathDisablesPersistence(t *testing.T) {
	clearEnv(t)

	t.Setenv("SESSION_DB_PATH", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err: %v", err)
	}
	if cfg.Store.Path != "" {
		t.Fatalf("expected persistence disabled, got path %q", cfg.Store.Path)
	}
}

func TestInvalidToastTTL(t *testing.T) {
	clearEnv(t)

	t.Setenv("TOAST_TTL_SECONDS", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for zero TTL")
	}

	t.Setenv("TOAST_TTL_SECONDS", "abc")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a non-numeric TTL")
	}
}

func TestInvalidSmartMockFlag(t *testing.T) {
	clearEnv(t)

	t.Setenv("MOCK_SMART_REPLIES", "maybe")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for an invalid boolean")
	}
}
