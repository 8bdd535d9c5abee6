package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	content := `env: dev
db:
  host: dbhost
  name: msp
report:
  minTickets: 7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := MustLoadPath(path)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, "dbhost", cfg.DBConfig.Host)
	assert.Equal(t, 7, cfg.Report.MinTickets)

	// Fields absent from the file fall back to their declared defaults.
	assert.Equal(t, "8080", cfg.HttpServer.Port)
	assert.Equal(t, "blend", cfg.Report.ScorePolicy)
	assert.Equal(t, "score", cfg.Report.TierPolicy)
	assert.False(t, cfg.BotConfig.Enabled)
}
