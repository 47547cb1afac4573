package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldCwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(oldCwd) })
}

func TestFindConfigFile_ExplicitPath(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(tmpFile, []byte("schema: evedb"), 0o644))

	path, err := findConfigFile(tmpFile)
	require.NoError(t, err)
	assert.Equal(t, tmpFile, path)
}

func TestFindConfigFile_ExplicitPathNotFound(t *testing.T) {
	_, err := findConfigFile("/nonexistent/path/esi2ddl.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestFindConfigFile_AutoDiscovery(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	configPath := filepath.Join(root, "esi2ddl.yml")
	require.NoError(t, os.WriteFile(configPath, []byte("schema: evedb"), 0o644))

	nested := filepath.Join(root, "deep", "nested")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	chdir(t, nested)

	path, err := findConfigFile("")
	require.NoError(t, err)

	// Resolve symlinks for comparison (macOS /var -> /private/var)
	expectedPath, _ := filepath.EvalSymlinks(configPath)
	actualPath, _ := filepath.EvalSymlinks(path)
	assert.Equal(t, expectedPath, actualPath)
}

func TestFindConfigFile_StopsAtRepoRoot(t *testing.T) {
	outer := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outer, "esi2ddl.yaml"), []byte("schema: outer"), 0o644))

	repo := filepath.Join(outer, "repo")
	require.NoError(t, os.MkdirAll(filepath.Join(repo, ".git"), 0o755))
	chdir(t, repo)

	path, err := findConfigFile("")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, ".git"), 0o755))
	chdir(t, root)

	cfg, path, err := Load("")
	require.NoError(t, err)
	assert.Empty(t, path)

	assert.Equal(t, "esi", cfg.Schema)
	assert.Equal(t, "esi_character", cfg.Roles.Protected)
	assert.Equal(t, "esi_public", cfg.Roles.Public)
	assert.Equal(t, "horizon", cfg.Script.Database)
	assert.True(t, cfg.Script.Validate)
	assert.Equal(t, ".esi2ddlignore", cfg.IgnoreFile)
	assert.Equal(t, "corporation_id", cfg.Session.OrganizationSetting)
	assert.Equal(t, "character_id", cfg.Session.CallerSetting)
	assert.Equal(t, 30*time.Second, cfg.Source.Timeout)
	assert.Equal(t, 5432, cfg.Connection.Port)
	assert.Equal(t, *Default(), *cfg)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "esi2ddl.yaml")
	content := `
schema: evedb
roles:
  protected: pilot
  public: anyone
script:
  database: warehouse
  validate: false
source:
  url: https://esi.example/latest/swagger.json
  timeout: 5s
session:
  caller_setting: app.character_id
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o644))

	t.Setenv("ESI2DDL_SCHEMA", "fromenv")
	t.Setenv("ESI2DDL_CONNECTION_PORT", "6543")

	cfg, path, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, configPath, path)

	assert.Equal(t, "fromenv", cfg.Schema, "env overrides file")
	assert.Equal(t, "pilot", cfg.Roles.Protected)
	assert.Equal(t, "anyone", cfg.Roles.Public)
	assert.Equal(t, "warehouse", cfg.Script.Database)
	assert.False(t, cfg.Script.Validate)
	assert.Equal(t, "https://esi.example/latest/swagger.json", cfg.Source.URL)
	assert.Equal(t, 5*time.Second, cfg.Source.Timeout)
	assert.Equal(t, "app.character_id", cfg.Session.CallerSetting)
	assert.Equal(t, "corporation_id", cfg.Session.OrganizationSetting)
	assert.Equal(t, 6543, cfg.Connection.Port)

	opts := cfg.CompilerOptions(nil)
	assert.Equal(t, "fromenv", opts.Schema)
	assert.Equal(t, "pilot", opts.ProtectedRole)
	assert.Equal(t, "app.character_id", opts.CallerSetting)
	assert.Equal(t, "warehouse", cfg.ScriptOptions().Database)
}

func TestLoad_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "esi2ddl.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("schema: [unterminated"), 0o644))

	_, _, err := Load(configPath)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestSetRoles(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.SetRoles("esi_character, esi_public"))
	assert.Equal(t, "esi_character", cfg.Roles.Protected)
	assert.Equal(t, "esi_public", cfg.Roles.Public)

	for _, bad := range []string{"", "only_one", "a,b,c", ",b"} {
		assert.Error(t, cfg.SetRoles(bad), "roles %q", bad)
	}
}
