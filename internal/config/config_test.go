package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conorfennell/recall/internal/domain"
)

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))
	return flags
}

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir()) // no recall.yaml here

	cfg, err := Load(newFlags(t))
	require.NoError(t, err)

	assert.Equal(t, "recall.db", cfg.DB.Path)
	assert.Equal(t, "127.0.0.1:8080", cfg.HTTP.Addr)
	assert.Equal(t, 10, cfg.Session.Minutes)
	assert.Equal(t, domain.AgeGroup9Plus, cfg.AgeGroup())
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoadPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	yaml := `
db:
  path: from-file.db
learner:
  age_group: "3-5"
session:
  minutes: 20
log:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	t.Setenv("RECALL_SESSION_MINUTES", "15")
	t.Setenv("RECALL_LEARNER_AGE_GROUP", "6-8")

	cfg, err := Load(newFlags(t, "--config", path, "--session.minutes", "5"))
	require.NoError(t, err)

	assert.Equal(t, "from-file.db", cfg.DB.Path, "file beats default")
	assert.Equal(t, domain.AgeGroup6to8, cfg.AgeGroup(), "env beats file")
	assert.Equal(t, 5, cfg.Session.Minutes, "flag beats env")
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.Equal(t, "repos", cfg.Repos.Dir, "default fills gaps")
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(newFlags(t, "--config", filepath.Join(t.TempDir(), "nope.yaml")))
	assert.Error(t, err)
}

func TestLoadValidation(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := Load(newFlags(t, "--learner.age_group", "teen"))
	assert.ErrorContains(t, err, "validate")

	_, err = Load(newFlags(t, "--session.minutes", "0"))
	assert.ErrorContains(t, err, "validate")
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "db.path", envKey("RECALL_DB_PATH"))
	assert.Equal(t, "learner.age_group", envKey("RECALL_LEARNER_AGE_GROUP"))
	assert.Equal(t, "standalone", envKey("RECALL_STANDALONE"))
}
