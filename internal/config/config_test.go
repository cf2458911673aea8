package config

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func envFrom(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func baseEnv() map[string]string {
	return map[string]string{
		"APP_NAME":   "skilla",
		"APP_ENV":    "test",
		"HTTP_PORT":  "8080",
		"DB_HOST":    "localhost",
		"DB_NAME":    "skilla",
		"DB_USER":    "skilla",
		"JWT_SECRET": "secret",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(envFrom(baseEnv()))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Database.DBPort != "5432" || cfg.Database.DBSSLMode != "disable" {
		t.Fatalf("unexpected db defaults: %+v", cfg.Database)
	}
	if cfg.Redis.Enabled() {
		t.Fatalf("expected redis disabled without host")
	}
	if cfg.Passport.Generator != GeneratorLocal {
		t.Fatalf("expected local generator, got %q", cfg.Passport.Generator)
	}
	if cfg.Onboarding.SkillsQuestionOrder != 4 {
		t.Fatalf("expected skills order 4, got %v", cfg.Onboarding.SkillsQuestionOrder)
	}
	if cfg.Onboarding.RequestTimeout != 10*time.Second || cfg.Onboarding.SessionIdle != 30*time.Minute {
		t.Fatalf("unexpected onboarding defaults: %+v", cfg.Onboarding)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	env := baseEnv()
	delete(env, "JWT_SECRET")
	delete(env, "DB_HOST")

	_, err := load(envFrom(env))
	if !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected errMissingRequiredEnv, got %v", err)
	}
	if !strings.Contains(err.Error(), "JWT_SECRET") || !strings.Contains(err.Error(), "DB_HOST") {
		t.Fatalf("expected both keys reported, got %v", err)
	}
}

func TestLoad_RemoteGeneratorNeedsURL(t *testing.T) {
	env := baseEnv()
	env["PASSPORT_GENERATOR"] = "remote"

	if _, err := load(envFrom(env)); !errors.Is(err, errMissingRequiredEnv) {
		t.Fatalf("expected missing url error, got %v", err)
	}

	env["PASSPORT_GENERATOR_URL"] = "https://fn.example.com/"
	cfg, err := load(envFrom(env))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Passport.GeneratorURL != "https://fn.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Passport.GeneratorURL)
	}
}

func TestLoad_Durations(t *testing.T) {
	env := baseEnv()
	env["ONBOARDING_REQUEST_TIMEOUT"] = "3"
	env["REDIS_TTL"] = "90s"
	env["ONBOARDING_SKILLS_QUESTION_ORDER"] = "4.5"

	cfg, err := load(envFrom(env))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Onboarding.RequestTimeout != 3*time.Second {
		t.Fatalf("expected 3s, got %s", cfg.Onboarding.RequestTimeout)
	}
	if cfg.Redis.TTL != 90*time.Second {
		t.Fatalf("expected 90s, got %s", cfg.Redis.TTL)
	}
	if cfg.Onboarding.SkillsQuestionOrder != 4.5 {
		t.Fatalf("expected 4.5, got %v", cfg.Onboarding.SkillsQuestionOrder)
	}

	env["ONBOARDING_SESSION_IDLE"] = "soon"
	if _, err := load(envFrom(env)); !errors.Is(err, errInvalidEnv) {
		t.Fatalf("expected errInvalidEnv, got %v", err)
	}
}
