package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("WORKER_CONCURRENCY", "")
	t.Setenv("DOCUMENT_TIMEOUT", "")
	t.Setenv("SKILL_MATCH_WORD_BOUNDARY", "")
	t.Setenv("QDRANT_URL", "")
	t.Setenv("GEMINI_API_KEY", "")

	cfg, _ := Load()

	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, 4, cfg.Worker.Concurrency)
	assert.Equal(t, 30*time.Second, cfg.Worker.DocumentTimeout)
	assert.False(t, cfg.Scoring.WordBoundaryMatch)
	assert.False(t, cfg.IndexEnabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("WORKER_CONCURRENCY", "9")
	t.Setenv("DOCUMENT_TIMEOUT", "5s")
	t.Setenv("SKILL_MATCH_WORD_BOUNDARY", "true")
	t.Setenv("QDRANT_URL", "http://localhost:6334")
	t.Setenv("GEMINI_API_KEY", "key")

	cfg, _ := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 9, cfg.Worker.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Worker.DocumentTimeout)
	assert.True(t, cfg.Scoring.WordBoundaryMatch)
	assert.True(t, cfg.IndexEnabled())
}

func TestGetEnvAsDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_DURATION", "not-a-duration")
	assert.Equal(t, 2*time.Second, getEnvAsDuration("SOME_DURATION", "2s"))
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "n"}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=n sslmode=disable", cfg.GetDatabaseDSN())
}
