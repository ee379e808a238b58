package cliapp

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeModel(t *testing.T, dir, name, sql string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(sql), 0o644))
}

func writeProjectConfig(t *testing.T, dir string, modelsDir, testsDir string) string {
	t.Helper()
	path := filepath.Join(dir, "powersql.toml")
	content := "[project]\nname = \"analytics\"\nmodels = [\"" + modelsDir + "\"]\ntests = [\"" + testsDir + "\"]\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestHelpCommand(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"--help"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	for _, want := range []string{"check", "run", "test"} {
		assert.Contains(t, output, want)
	}
}

func TestCheckCommand_ValidProject(t *testing.T) {
	dir := t.TempDir()
	modelsDir := filepath.Join(dir, "models")
	require.NoError(t, os.MkdirAll(modelsDir, 0o755))
	writeModel(t, modelsDir, "t.sql", "CREATE VIEW t AS SELECT a FROM raw;")
	cfgPath := writeProjectConfig(t, dir, modelsDir, filepath.Join(dir, "tests"))

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"check", "--config", cfgPath})

	err := cmd.Execute()
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "1 models OK, 0 tests OK")
}

func TestCheckCommand_TypeErrorInTestFails(t *testing.T) {
	dir := t.TempDir()
	modelsDir := filepath.Join(dir, "models")
	testsDir := filepath.Join(dir, "tests")
	require.NoError(t, os.MkdirAll(modelsDir, 0o755))
	require.NoError(t, os.MkdirAll(testsDir, 0o755))
	writeModel(t, modelsDir, "t.sql", "CREATE VIEW t AS SELECT a FROM raw;")
	writeModel(t, testsDir, "t.sql", "ASSERT missing_column AS 'column must exist';")
	cfgPath := writeProjectConfig(t, dir, modelsDir, testsDir)

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"check", "--config", cfgPath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column must exist")
}

func TestCheckCommand_CyclicProjectFails(t *testing.T) {
	dir := t.TempDir()
	modelsDir := filepath.Join(dir, "models")
	require.NoError(t, os.MkdirAll(modelsDir, 0o755))
	writeModel(t, modelsDir, "a.sql", "CREATE VIEW a AS SELECT x FROM b;")
	writeModel(t, modelsDir, "b.sql", "CREATE VIEW b AS SELECT x FROM a;")
	cfgPath := writeProjectConfig(t, dir, modelsDir, filepath.Join(dir, "tests"))

	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"check", "--config", cfgPath})

	err := cmd.Execute()
	require.Error(t, err)
}

func TestUnknownCommand(t *testing.T) {
	cmd := NewRootCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"bogus-command"})

	err := cmd.Execute()
	assert.Error(t, err)
}
