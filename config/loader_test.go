package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/godamri/helix-audit/engine"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "audit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoaderYAMLThenEnvOverride(t *testing.T) {
	path := writeConfigFile(t, `
emit_messages: true
destination_table: audit_archive
multi_value_delimiter: "; "
excluded_columns:
  - table: t_case
    column: c_secret
`)
	t.Setenv("AUDIT_DESTINATION_TABLE", "audit_override")

	cfg, err := NewLoader[engine.Config]("", path).LoadFrom(engine.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, "audit_override", cfg.DestinationTable, "env wins over file")
	assert.Equal(t, "; ", cfg.MultiValueDelimiter)
	assert.True(t, cfg.Excluded("t_case", "c_secret"))
}

func TestLoaderKeepsBaselineWithoutFile(t *testing.T) {
	cfg, err := NewLoader[engine.Config]("", "").LoadFrom(engine.DefaultConfig())
	require.NoError(t, err)

	assert.True(t, cfg.EmitMessages)
	assert.Equal(t, engine.DefaultDestinationTable, cfg.DestinationTable)
	assert.Equal(t, ", ", cfg.MultiValueDelimiter)
}

func TestLoaderMissingFileIsTolerated(t *testing.T) {
	cfg, err := NewLoader[engine.Config]("", "/nonexistent/audit.yaml").LoadFrom(engine.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultDestinationTable, cfg.DestinationTable)
}

func TestLoaderRejectsMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "emit_messages: [not a bool")
	_, err := NewLoader[engine.Config]("", path).Load()
	require.Error(t, err)
}

func TestContainerSwapsSnapshots(t *testing.T) {
	c := NewContainer(engine.DefaultConfig())

	first := c.Get()
	assert.True(t, first.EmitMessages)

	next := engine.DefaultConfig()
	next.EmitMessages = false
	next.DestinationTable = "audit_archive"
	require.NoError(t, c.Update(next))

	assert.True(t, first.EmitMessages, "in-flight snapshot is untouched")
	assert.False(t, c.Get().EmitMessages)
	assert.Equal(t, "audit_archive", c.Get().DestinationTable)
}
