package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/revathy-s/student-records-api/internal/config"
)

func TestMustLoadReadsYAMLAndEnvOverrides(t *testing.T) {
	assert := assert.New(t)

	yaml := `
env: dev

http_server:
  address: "localhost:8080"
  allowed_origins:
    - "http://localhost:5173"
    - "https://records.example"

database:
  driver: postgres
  host: db.internal
  port: 5432
  user: records
  name: student_db
  ssl: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DB_PASSWORD", "secret")

	cfg := config.MustLoad()

	assert.Equal("dev", cfg.Env)
	assert.Equal("localhost:8080", cfg.Addr)
	assert.Equal([]string{"http://localhost:5173", "https://records.example"}, cfg.AllowedOrigins)
	assert.Equal("postgres", cfg.Database.Driver)
	assert.Equal("db.internal", cfg.Database.Host)
	assert.Equal(5432, cfg.Database.Port)
	assert.Equal("records", cfg.Database.User)
	assert.Equal("secret", cfg.Database.Password, "credentials come from the environment")
	assert.Equal("student_db", cfg.Database.Name)
	assert.True(cfg.Database.SSL)
	assert.Equal(10, cfg.Database.MaxOpenConns, "pool sizing defaults apply")
	assert.Equal(5, cfg.Database.MaxIdleConns)
}
