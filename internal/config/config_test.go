package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
order_db:
  dsn: "host=db user=escrow dbname=escrow sslmode=disable"
auth:
  jwt_secret: test-secret
escrow:
  auto_finalize_days: 7
  dispute_resolver_roles: [admin, support]
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, "test-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "migrations", cfg.OrderDB.MigrationsPath)
	assert.Equal(t, 15*time.Second, cfg.HTTPServer.ShutdownTimeout)
	assert.Equal(t, "xmr", cfg.Escrow.DefaultPaymentMethod)
	assert.Equal(t, []string{"admin", "support"}, cfg.Escrow.DisputeResolverRoles)
	assert.Equal(t, 7*24*time.Hour, cfg.Escrow.GracePeriod())
	assert.False(t, cfg.RedisCache.Enabled)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestKafkaService_Enabled(t *testing.T) {
	assert.False(t, KafkaService{}.Enabled())

	k := KafkaService{Host: "broker", Port: "9092"}
	assert.True(t, k.Enabled())
	assert.Equal(t, "broker:9092", k.Address())
}
