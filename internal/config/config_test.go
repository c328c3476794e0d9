package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHasSaneWalkSpeed(t *testing.T) {
	c := Default()
	assert.Equal(t, 1.4, c.WalkSpeedMPS)
	assert.Equal(t, ":8080", c.Server.Addr)
}

func TestApplyEnvOverridesDefaults(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("SERVER_ADDR", ":9090")

	c := Default()
	c.ApplyEnv()
	assert.Equal(t, "db.internal", c.Postgres.Host)
	assert.Equal(t, ":9090", c.Server.Addr)
}

func TestLoadFileOverridesOverDefaults(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "transitcore-*.yaml")
	require.NoError(t, err)
	_, err = f.WriteString("walk_speed_mps: 1.2\nserver:\n  addr: \":7777\"\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	c, err := LoadFile(f.Name())
	require.NoError(t, err)
	assert.Equal(t, 1.2, c.WalkSpeedMPS)
	assert.Equal(t, ":7777", c.Server.Addr)
	assert.Equal(t, "localhost", c.Postgres.Host) // untouched default
}
